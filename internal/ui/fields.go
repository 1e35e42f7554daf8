// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ui

// Field is a research field offered in the arXiv search form. Value is what
// the backend expects; it maps these names to arXiv search terms.
type Field struct {
	Value string
	En    string
}

// fields are the selectable research fields. An empty value searches all.
var fields = []Field{
	{"機械学習", "Machine learning"},
	{"自然言語処理", "Natural language processing"},
	{"コンピュータビジョン", "Computer vision"},
	{"データサイエンス", "Data science"},
	{"Web開発", "Web development"},
	{"モバイル開発", "Mobile development"},
	{"クラウドコンピューティング", "Cloud computing"},
	{"ブロックチェーン", "Blockchain"},
	{"サイバーセキュリティ", "Cybersecurity"},
	{"量子コンピューティング", "Quantum computing"},
}

// FieldOption is a rendered <option>.
type FieldOption struct {
	Value    string
	Label    string
	Selected bool
}

func fieldOptions(lang, selected string) []FieldOption {
	all := "すべて"
	if lang == "en" {
		all = "All fields"
	}
	opts := []FieldOption{{Value: "", Label: all, Selected: selected == ""}}
	for _, f := range fields {
		label := f.Value
		if lang == "en" {
			label = f.En
		}
		opts = append(opts, FieldOption{Value: f.Value, Label: label, Selected: f.Value == selected})
	}
	return opts
}
