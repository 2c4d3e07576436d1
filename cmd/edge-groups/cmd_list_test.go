package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/al-bashkir/edge-groups/internal/config"
	"github.com/al-bashkir/edge-groups/internal/edge"
)

func writeTestInventory(t *testing.T) (cfgPath, invPath string) {
	t.Helper()
	dir := t.TempDir()
	cfgPath = filepath.Join(dir, "config.toml")
	invPath = filepath.Join(dir, "edge.toml")

	inv := config.DefaultInventory()
	inv.Tags = []edge.Tag{{ID: 1, Name: "env:prod"}, {ID: 2, Name: "env:dev"}}
	inv.Endpoints = []edge.Endpoint{
		{ID: 1, Name: "edge-01", URL: "tcp://10.0.0.1:9001", TagIDs: []int{1}},
		{ID: 2, Name: "edge-02", TagIDs: []int{2}},
		{ID: 3, Name: "edge-03", TagIDs: []int{1, 2}},
	}
	inv.Groups = []edge.Group{
		{ID: 1, Name: "prod-edges", Dynamic: true, TagIDs: []int{1}},
		{ID: 2, Name: "lab", Endpoints: []int{2}},
	}
	if _, err := config.SaveInventory(invPath, inv); err != nil {
		t.Fatalf("SaveInventory error: %v", err)
	}
	return cfgPath, invPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgPath, invPath := writeTestInventory(t)
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", cfgPath, "--inventory", invPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestListGroupsJSON(t *testing.T) {
	out, err := execute(t, "list", "groups", "-o", "json")
	if err != nil {
		t.Fatalf("list error: %v", err)
	}

	var got []groupView
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	want := []groupView{
		{ID: 1, Name: "prod-edges", Mode: "dynamic", Tags: []string{"env:prod"}, Members: []string{"edge-01", "edge-03"}},
		{ID: 2, Name: "lab", Mode: "static", Members: []string{"edge-02"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("groups mismatch (-want +got):\n%s", diff)
	}
}

func TestListGroupsTable(t *testing.T) {
	out, err := execute(t, "list", "groups")
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	for _, s := range []string{"NAME", "prod-edges", "dynamic", "lab", "static"} {
		if !strings.Contains(out, s) {
			t.Fatalf("table output missing %q:\n%s", s, out)
		}
	}
}

func TestListTagsYAML(t *testing.T) {
	out, err := execute(t, "list", "tags", "-o", "yaml")
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	var got []edge.Tag
	if err := yaml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	want := []edge.Tag{{ID: 1, Name: "env:prod"}, {ID: 2, Name: "env:dev"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestListRejectsUnknownSubjectAndFormat(t *testing.T) {
	if _, err := execute(t, "list", "hosts"); err == nil {
		t.Fatalf("expected error for unknown subject")
	}
	if _, err := execute(t, "list", "groups", "-o", "xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestShowGroup(t *testing.T) {
	out, err := execute(t, "show", "LAB", "-o", "json")
	if err != nil {
		t.Fatalf("show error: %v", err)
	}
	var got groupView
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	want := groupView{ID: 2, Name: "lab", Mode: "static", Members: []string{"edge-02"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("group mismatch (-want +got):\n%s", diff)
	}
}

func TestShowMissingGroup(t *testing.T) {
	_, err := execute(t, "show", "nope")
	if !errors.Is(err, edge.ErrObjectNotFound) {
		t.Fatalf("err=%v, want ErrObjectNotFound", err)
	}
}
