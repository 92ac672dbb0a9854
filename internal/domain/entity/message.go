package entity

import (
	"encoding/json"
	"fmt"
	"strings"
)

type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleHuman     MessageRole = "human"
	RoleAssistant MessageRole = "assistant"
	RoleTool      MessageRole = "tool"
)

func (r MessageRole) String() string {
	return string(r)
}

// Content is either plain text or an ordered sequence of fragments.
// The set of implementations is closed to this package.
type Content interface {
	Text() string
	isContent()
}

// TextContent is plain string content.
type TextContent string

func (c TextContent) Text() string {
	return strings.TrimSpace(string(c))
}

func (TextContent) isContent() {}

// Fragment is one piece of a fragment sequence: a plain string or a
// key-value fragment that may carry a "text" field.
type Fragment struct {
	str    string
	fields map[string]any
	isText bool
}

func StringFragment(s string) Fragment {
	return Fragment{str: s, isText: true}
}

func KVFragment(fields map[string]any) Fragment {
	return Fragment{fields: fields}
}

// Text returns the textual part of the fragment, or "" when it has none.
func (f Fragment) Text() string {
	if f.isText {
		return f.str
	}
	if s, ok := f.fields["text"].(string); ok {
		return s
	}
	return ""
}

func (f Fragment) MarshalJSON() ([]byte, error) {
	if f.isText {
		return json.Marshal(f.str)
	}
	return json.Marshal(f.fields)
}

type Fragments []Fragment

func (c Fragments) Text() string {
	var sb strings.Builder
	for _, f := range c {
		sb.WriteString(f.Text())
	}
	return strings.TrimSpace(sb.String())
}

func (Fragments) isContent() {}

type Message struct {
	Role       MessageRole
	Content    Content
	ToolCalls  []ToolCall
	ToolCallID string
	Name       string
}

func NewHumanMessage(text string) Message {
	return Message{Role: RoleHuman, Content: TextContent(text)}
}

func NewAssistantMessage(text string, calls ...ToolCall) Message {
	return Message{Role: RoleAssistant, Content: TextContent(text), ToolCalls: calls}
}

func NewToolMessage(callID string, name ToolName, text string) Message {
	return Message{
		Role:       RoleTool,
		Content:    TextContent(text),
		ToolCallID: callID,
		Name:       name.String(),
	}
}

// Text extracts the message text; nil content yields "".
func (m Message) Text() string {
	if m.Content == nil {
		return ""
	}
	return m.Content.Text()
}

func (m Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}

type ToolCall struct {
	ID        string
	Name      ToolName
	Arguments string
}

// Args decodes the raw JSON arguments. Empty arguments decode to an empty map.
func (tc ToolCall) Args() (map[string]any, error) {
	args := map[string]any{}
	if strings.TrimSpace(tc.Arguments) == "" {
		return args, nil
	}
	if err := json.Unmarshal([]byte(tc.Arguments), &args); err != nil {
		return nil, fmt.Errorf("decode arguments of %s: %w", tc.Name, err)
	}
	return args, nil
}

type ToolDefinition struct {
	Name        ToolName
	Description string
	Parameters  map[string]interface{}
}
