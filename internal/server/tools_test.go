package server

import (
	"encoding/json"
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	want := []string{"image_dimensions", "palette_analyze", "palette_overlay", "color_sample", "color_name", "cache_clear"}
	if len(tools) != len(want) {
		t.Fatalf("got %d tools, want %d", len(tools), len(want))
	}

	seen := make(map[string]bool)
	for i, tool := range tools {
		if tool.Name != want[i] {
			t.Errorf("tool %d: got %s, want %s", i, tool.Name, want[i])
		}
		if seen[tool.Name] {
			t.Errorf("duplicate tool %s", tool.Name)
		}
		seen[tool.Name] = true

		if tool.Description == "" {
			t.Errorf("%s has no description", tool.Name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			schema := tool.InputSchema
			if schema["type"] != "object" {
				t.Errorf("schema type: got %v", schema["type"])
			}

			props, ok := schema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("properties should be a map")
			}

			// cache_clear is the only tool whose arguments are all optional.
			required, _ := schema["required"].([]string)
			if len(required) == 0 && tool.Name != "cache_clear" {
				t.Fatal("required should list at least one property")
			}
			for _, name := range required {
				if _, ok := props[name]; !ok {
					t.Errorf("required property %s is not defined", name)
				}
			}

			for name, p := range props {
				prop, ok := p.(map[string]interface{})
				if !ok {
					t.Errorf("property %s should be a map", name)
					continue
				}
				if prop["type"] == nil || prop["description"] == nil {
					t.Errorf("property %s needs a type and description", name)
				}
			}
		})
	}
}

func TestToolDefinitions_KBounds(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		props := tool.InputSchema["properties"].(map[string]interface{})
		k, ok := props["k"].(map[string]interface{})
		if !ok {
			continue
		}
		if k["minimum"] != 3 || k["maximum"] != 12 || k["default"] != 8 {
			t.Errorf("%s: k bounds %v..%v default %v", tool.Name, k["minimum"], k["maximum"], k["default"])
		}
	}
}

func TestHandleToolsList(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleToolsList(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/list"})

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	// Marshal and decode to check the wire format.
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Result struct {
			Tools []struct {
				Name        string                 `json:"name"`
				InputSchema map[string]interface{} `json:"inputSchema"`
			} `json:"tools"`
		} `json:"result"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded.Result.Tools) != len(GetToolDefinitions()) {
		t.Errorf("got %d tools on the wire", len(decoded.Result.Tools))
	}
	for _, tool := range decoded.Result.Tools {
		if tool.InputSchema == nil {
			t.Errorf("%s missing inputSchema", tool.Name)
		}
	}
}
