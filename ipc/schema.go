package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const helloSchema = `{
  "type": "object",
  "required": ["constants", "my_id", "players", "width", "height", "halite"],
  "properties": {
    "constants": {"type": "object"},
    "my_id": {"type": "integer", "minimum": 0},
    "players": {
      "type": "array",
      "minItems": 1,
      "maxItems": 4,
      "items": {
        "type": "object",
        "required": ["id", "x", "y"],
        "properties": {
          "id": {"type": "integer", "minimum": 0},
          "x": {"type": "integer", "minimum": 0},
          "y": {"type": "integer", "minimum": 0}
        }
      }
    },
    "width": {"type": "integer", "minimum": 1},
    "height": {"type": "integer", "minimum": 1},
    "halite": {"type": "array", "items": {"type": "integer", "minimum": 0}}
  }
}`

const frameSchema = `{
  "type": "object",
  "required": ["turn", "players"],
  "properties": {
    "turn": {"type": "integer", "minimum": 0},
    "players": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "halite"],
        "properties": {
          "id": {"type": "integer", "minimum": 0},
          "halite": {"type": "integer", "minimum": 0},
          "ships": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["id", "x", "y", "halite"],
              "properties": {"halite": {"type": "integer", "minimum": 0}}
            }
          },
          "dropoffs": {
            "type": "array",
            "items": {"type": "object", "required": ["id", "x", "y"]}
          }
        }
      }
    },
    "cells": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["x", "y", "halite"],
        "properties": {"halite": {"type": "integer", "minimum": 0}}
      }
    }
  }
}`

const commandsSchema = `{
  "type": "object",
  "required": ["turn", "commands"],
  "properties": {
    "turn": {"type": "integer"},
    "commands": {
      "type": "array",
      "items": {"type": "string", "pattern": "^(g|c -?[0-9]+|m -?[0-9]+ [nsewo])$"}
    }
  }
}`

var schemas = map[string]*jsonschema.Schema{
	TypeHello:    jsonschema.MustCompileString("hello.json", helloSchema),
	TypeFrame:    jsonschema.MustCompileString("frame.json", frameSchema),
	TypeCommands: jsonschema.MustCompileString("commands.json", commandsSchema),
}

// Validate checks env's payload against the schema for its type. Types
// without a schema always pass.
func Validate(env Envelope) error {
	s, ok := schemas[env.Type]
	if !ok {
		return nil
	}
	var v any
	if err := json.Unmarshal(env.Data, &v); err != nil {
		return fmt.Errorf("%s payload: %w", env.Type, err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("%s payload: %w", env.Type, err)
	}
	return nil
}
