package markdown

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/rogersnm/todo/internal/model"
	"gopkg.in/yaml.v3"
)

// MarshalTask renders t as a markdown file: id, completion and creation time
// in YAML frontmatter, the task text as the body.
func MarshalTask(t model.Task) ([]byte, error) {
	return marshal(t, t.Text)
}

// ParseTask reads a file produced by MarshalTask. The body becomes the
// task text; it is not validated here.
func ParseTask(r io.Reader) (model.Task, error) {
	t, body, err := parse[model.Task](r)
	if err != nil {
		return model.Task{}, err
	}
	t.Text = body
	return t, nil
}

func parse[T any](r io.Reader) (T, string, error) {
	var meta T
	body, err := frontmatter.Parse(r, &meta)
	if err != nil {
		return meta, "", fmt.Errorf("parsing frontmatter: %w", err)
	}
	return meta, strings.TrimSpace(string(body)), nil
}

func marshal[T any](meta T, body string) ([]byte, error) {
	yamlBytes, err := yaml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshaling frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(yamlBytes)
	buf.WriteString("---\n")
	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			buf.WriteString("\n")
		}
	}
	return buf.Bytes(), nil
}
