// Пакет htmlcodec переводит rich-text документ в HTML для хранения и обратно.
//
// Основные возможности:
//   - Сериализация дерева в HTML с экранированием текста.
//   - Разбор сохраненного HTML через golang.org/x/net/html с восстановлением дерева.
//   - Загрузка устаревших записей: простого текста и JSON-деревьев.
//   - Регистрация кодека в rttypes для работы Document как колонки GORM.
package htmlcodec

import (
	"encoding/json"
	"strings"

	"golang.org/x/net/html"

	policy "github.com/aisa-it/assessment/internal/assessment/redactor-policy"
	"github.com/aisa-it/assessment/internal/assessment/richtext"
	"github.com/aisa-it/assessment/internal/assessment/richtext/rttypes"
)

func init() {
	rttypes.HTMLSerializer = SerializeDocument
	rttypes.Loader = Load
}

// Load читает значение, пришедшее из хранилища. Строки с JSON-деревом считаются
// устаревшими записями, строки без разметки - простым текстом, остальные разбираются
// как HTML после переименования устаревших тегов (b, i, tt, div).
func Load(value any) rttypes.Document {
	switch v := value.(type) {
	case nil:
		return rttypes.EmptyDocument()
	case string:
		return loadString(v)
	case []byte:
		return loadString(string(v))
	case *string:
		if v == nil {
			return rttypes.EmptyDocument()
		}
		return loadString(*v)
	}
	return richtext.Normalize(value)
}

func loadString(s string) rttypes.Document {
	if tree, ok := legacyTree(s); ok {
		return richtext.Normalize(tree)
	}
	if text, ok := plainText(s); ok {
		return richtext.Normalize(rttypes.Document{rttypes.Text{Text: text}})
	}
	return Deserialize(policy.RewriteLegacyTags(s))
}

// legacyTree распознает JSON-дерево: массив узлов или корневой объект с children.
// Узлом считается объект хотя бы с одним из ключей text, kind, type, children,
// проверка идет по всему дереву. Строки вроде "[1, 2]" или [{"a": 1}] остаются текстом.
func legacyTree(s string) (any, bool) {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "[") && !strings.HasPrefix(trimmed, "{") {
		return nil, false
	}

	var raw any
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return nil, false
	}

	switch v := raw.(type) {
	case []any:
		if !treeNodes(v) {
			return nil, false
		}
		return v, true
	case map[string]any:
		children, ok := v["children"].([]any)
		if !ok || !treeNodes(children) {
			return nil, false
		}
		return children, true
	}
	return nil, false
}

var treeKeys = []string{"text", "kind", "type", "children"}

func treeNodes(list []any) bool {
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return false
		}
		known := false
		for _, k := range treeKeys {
			if _, ok := m[k]; ok {
				known = true
				break
			}
		}
		if !known {
			return false
		}
		if children, ok := m["children"]; ok {
			list, ok := children.([]any)
			if !ok || !treeNodes(list) {
				return false
			}
		}
	}
	return true
}

// plainText распознает устаревшую запись без разметки. Переводы строк в ней
// значимы, поэтому такая запись не проходит через разбор HTML.
func plainText(s string) (string, bool) {
	nodes, err := ParseFragment(s)
	if err != nil {
		return "", false
	}
	var b strings.Builder
	for _, n := range nodes {
		if n.Type != html.TextNode {
			return "", false
		}
		b.WriteString(n.Data)
	}
	return b.String(), true
}
