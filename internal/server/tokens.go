package server

import (
	"encoding/json"

	"github.com/tiktoken-go/tokenizer"
)

// ToolTokens estimates how many context tokens a tool definition costs a
// client: name, description and input schema, encoded with cl100k_base.
func ToolTokens(spec ToolSpec, defaultDomain string) int {
	schema, err := spec.InputSchema(defaultDomain)
	if err != nil {
		return 0
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return 0
	}
	return countTokens(spec.Name + " " + spec.Description + " " + string(data))
}

func countTokens(text string) int {
	codec, err := tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		return len(text) / 4
	}
	ids, _, err := codec.Encode(text)
	if err != nil {
		return len(text) / 4
	}
	return len(ids)
}
