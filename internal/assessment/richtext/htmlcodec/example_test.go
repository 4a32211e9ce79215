package htmlcodec_test

import (
	"encoding/json"
	"fmt"

	"github.com/aisa-it/assessment/internal/assessment/richtext/htmlcodec"
)

// ExampleDeserialize демонстрирует разбор сохраненного HTML и обратную сериализацию.
func ExampleDeserialize() {
	doc := htmlcodec.Deserialize("<p>Hello <strong>world</strong></p>")

	data, _ := json.Marshal(doc)
	fmt.Println(string(data))
	fmt.Println(htmlcodec.SerializeDocument(doc))

	// Output:
	// [{"kind":"paragraph","children":[{"text":"Hello "},{"text":"world","bold":true}]}]
	// <p>Hello <strong>world</strong></p>
}

// ExampleLoad демонстрирует чтение устаревшей записи без разметки.
func ExampleLoad() {
	doc := htmlcodec.Load("")
	fmt.Println(htmlcodec.SerializeDocument(doc))

	doc = htmlcodec.Load("Сколько будет 2 < 3?")
	fmt.Println(htmlcodec.SerializeDocument(doc))

	// Output:
	// <p></p>
	// <p>Сколько будет 2 &lt; 3?</p>
}
