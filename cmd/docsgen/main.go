// Генерация документации об ошибках API в формате Markdown.
// Берет перечень ошибок из пакета apierrors и создает документ с таблицей кодов, HTTP-кодов и сообщений.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	md "github.com/nao1215/markdown"

	"github.com/aisa-it/assessment/internal/assessment/apierrors"
)

func main() {
	outputMd := flag.String("out", "api_errors.md", "Path to output md")
	flag.Parse()

	slog.Info("Generate api errors docs", "out", *outputMd)

	ff, err := os.Create(*outputMd)
	if err != nil {
		slog.Error("Create output file", "err", err)
		os.Exit(1)
	}
	defer ff.Close()

	if err := generate(ff); err != nil {
		slog.Error("Generate docs fail", "err", err)
		os.Exit(1)
	}
	slog.Info("Docs generated")
}

func generate(w io.Writer) error {
	return md.NewMarkdown(w).
		H1("Перечень кодов ошибок").
		PlainText("Данный раздел посвящен описанию возможных ошибок от сервера.").
		CustomTable(md.TableSet{
			Header: []string{"Код", "HTTP код", "Сообщение", "Сообщение на русском"},
			Rows:   getRows(apierrors.Catalogue()),
		}, md.TableOptions{
			AutoWrapText: false,
		}).Build()
}

func getRows(errs []apierrors.DefinedError) [][]string {
	rows := make([][]string, 0, len(errs))
	for _, e := range errs {
		rows = append(rows, []string{
			md.Bold(fmt.Sprint(e.Code)),
			fmt.Sprintf("%d %s", e.StatusCode, md.Italic(http.StatusText(e.StatusCode))),
			md.Code(placeholder(e.Err)),
			md.Code(placeholder(e.RuErr)),
		})
	}
	return rows
}

// placeholder заменяет аргумент форматирования на читаемую подстановку.
func placeholder(msg string) string {
	return strings.ReplaceAll(msg, "%s", "<value>")
}
