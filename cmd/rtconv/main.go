// Утилита перевода сохраненного rich-text значения (HTML, устаревшее JSON-дерево или простой текст)
// в каноничный вид. Удобна для проверки записей БД и ручной миграции.
// С флагом -from md вход разбирается как Markdown.
//
// Форматы вывода:
//   - html: каноничный HTML, как он хранится в БД.
//   - json: дерево документа.
//   - md: Markdown.
//   - text: текст без разметки.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aisa-it/assessment/internal/assessment/apierrors"
	"github.com/aisa-it/assessment/internal/assessment/export"
	"github.com/aisa-it/assessment/internal/assessment/richtext/htmlcodec"
	"github.com/aisa-it/assessment/internal/assessment/richtext/mdcodec"
	"github.com/aisa-it/assessment/internal/assessment/richtext/rttypes"
)

func main() {
	input := flag.String("in", "-", "Input file, - for stdin")
	from := flag.String("from", "stored", "Input format: stored (html, legacy json, plain text) or md")
	format := flag.String("format", "html", "Output format: html, json, md or text")
	flag.Parse()

	in := os.Stdin
	if *input != "-" {
		f, err := os.Open(*input)
		if err != nil {
			slog.Error("Open input", "file", *input, "err", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	if err := convert(in, os.Stdout, *from, *format); err != nil {
		slog.Error("Convert rich text", "format", *format, "err", err)
		os.Exit(1)
	}
}

func convert(r io.Reader, w io.Writer, from, format string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	var doc rttypes.Document
	switch from {
	case "stored":
		doc = htmlcodec.Load(data)
	case "md":
		doc = mdcodec.Parse(data)
	default:
		return apierrors.ErrUnsupportedFormat.WithFormattedMessage(from)
	}

	switch format {
	case "html":
		_, err = fmt.Fprintln(w, htmlcodec.SerializeDocument(doc))
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(doc)
	case "md":
		_, err = fmt.Fprintln(w, export.DocumentToMarkdown(doc))
	case "text":
		_, err = fmt.Fprintln(w, doc.PlainText())
	default:
		return apierrors.ErrUnsupportedFormat.WithFormattedMessage(format)
	}
	return err
}
