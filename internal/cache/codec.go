// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Codec serializes the whole in-memory map to bytes and back. The ID is stored
// in the snapshot header so a file written with one codec is never decoded
// with another.
type Codec interface {
	ID() byte
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// Built-in codecs. Gob round-trips Go types exactly; values stored behind an
// interface type must be registered with gob.Register. JSON and YAML are human
// readable but follow their own typing rules (JSON numbers decode to float64
// when V is any).
var (
	Gob  Codec = gobCodec{}
	JSON Codec = jsonCodec{}
	YAML Codec = yamlCodec{}
)

var codecs = []Codec{Gob, JSON, YAML}

// CodecByName returns the built-in codec with the given name, ignoring case.
func CodecByName(name string) (Codec, error) {
	for _, c := range codecs {
		if strings.EqualFold(c.Name(), name) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

// CodecNames lists the built-in codec names.
func CodecNames() []string {
	names := make([]string, 0, len(codecs))
	for _, c := range codecs {
		names = append(names, c.Name())
	}
	return names
}

type gobCodec struct{}

func (gobCodec) ID() byte     { return 1 }
func (gobCodec) Name() string { return "gob" }

func (gobCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (gobCodec) Unmarshal(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

type jsonCodec struct{}

func (jsonCodec) ID() byte                           { return 2 }
func (jsonCodec) Name() string                       { return "json" }
func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

type yamlCodec struct{}

func (yamlCodec) ID() byte                           { return 3 }
func (yamlCodec) Name() string                       { return "yaml" }
func (yamlCodec) Marshal(v any) ([]byte, error)      { return yaml.Marshal(v) }
func (yamlCodec) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }
