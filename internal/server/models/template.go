package models

// Section template for a new letter. IDs are stable and addressable by the
// API; titles are what the reader sees in the exported document. Order here
// is the output order and is part of the sealed content's identity.
var sectionTemplate = []Section{
	{ID: "contexto", Title: "Contexto do relacionamento", Position: 0},
	{ID: "fatos", Title: "O que aconteceu", Position: 1},
	{ID: "sentimentos", Title: "Como eu me senti", Position: 2},
	{ID: "limites", Title: "Limites e decisões", Position: 3},
	{ID: "mensagem", Title: "Mensagem final", Position: 4},
}

// TemplateSections returns a fresh copy of the section template with empty
// content. Callers may mutate the returned slice freely.
func TemplateSections() []Section {
	sections := make([]Section, len(sectionTemplate))
	copy(sections, sectionTemplate)
	return sections
}
