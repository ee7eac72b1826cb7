package models

import "github.com/invopop/jsonschema"

// FlowSchema returns the JSON Schema describing ConversationFlow
func FlowSchema() *jsonschema.Schema {
	r := new(jsonschema.Reflector)
	r.ExpandedStruct = true
	r.RequiredFromJSONSchemaTags = true
	r.DoNotReference = false

	schema := r.Reflect(&ConversationFlow{})
	schema.Title = "ConversationFlow"
	schema.Description = "Sections of natural-language questions generated from a requirements document"
	return schema
}
