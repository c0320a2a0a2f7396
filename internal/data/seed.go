package data

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed movies.json
var defaultSeed []byte

//go:embed movies.schema.json
var seedSchemaJSON string

const seedSchemaURL = "movies.schema.json"

var seedSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true

	if err := compiler.AddResource(seedSchemaURL, strings.NewReader(seedSchemaJSON)); err != nil {
		return nil, err
	}

	return compiler.Compile(seedSchemaURL)
})

// LoadSeed 读取初始数据，path 为空时使用内置数据集；支持 .json / .yaml / .yml
func LoadSeed(path string) ([]*Movie, error) {
	if path == "" {
		return ParseSeed(defaultSeed, ".json")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	return ParseSeed(b, filepath.Ext(path))
}

// ParseSeed 解析并校验数据集，所有记录必须符合 schema 且 ID 唯一
func ParseSeed(b []byte, ext string) ([]*Movie, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(b, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
		}

		var err error
		b, err = json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
		}
	case ".json":
	default:
		return nil, fmt.Errorf("%w: unsupported file extension %q", ErrInvalidSeed, ext)
	}

	schema, err := seedSchema()
	if err != nil {
		return nil, fmt.Errorf("compile seed schema: %w", err)
	}

	var doc any
	if err := json.NewDecoder(bytes.NewReader(b)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}

	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSeed, strings.Join(schemaMessages(err), "; "))
	}

	var movies []*Movie
	if err := json.Unmarshal(b, &movies); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}

	seen := make(map[string]bool, len(movies))
	for _, movie := range movies {
		if seen[movie.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, movie.ID)
		}
		seen[movie.ID] = true
	}

	return movies, nil
}

// schemaMessages 展开 schema 校验错误，格式为 "位置: 消息"
func schemaMessages(err error) []string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}

	var messages []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			location := e.InstanceLocation
			if location == "" {
				location = "/"
			}
			messages = append(messages, location+": "+e.Message)
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(ve)

	return messages
}
