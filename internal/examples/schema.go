package examples

import "github.com/abhisek/wordmax/internal/llm"

// SentenceSchema is the structured output for one example sentence.
var SentenceSchema = &llm.Schema{
	Name:        "example-sentence",
	Description: "A short example sentence using a vocabulary word, with a translation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"sentence": map[string]any{
				"type":        "string",
				"description": "One natural English sentence (6-14 words) that uses the word in the given meaning",
				"minLength":   1,
			},
			"translation": map[string]any{
				"type":        "string",
				"description": "Translation of the sentence into the language of the given meaning",
			},
		},
		"required":             []any{"sentence", "translation"},
		"additionalProperties": false,
	},
}

const systemPrompt = `You help learners memorize English vocabulary.
Given a word and its meaning, write one short, everyday example sentence that
uses the word in exactly that meaning, then translate the sentence into the
language the meaning is written in. Avoid rare words other than the target.`
