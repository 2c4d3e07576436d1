package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bndr/gotabulate"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/al-bashkir/edge-groups/internal/edge"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// groupView is a group with its criteria and members resolved to names.
type groupView struct {
	ID           int      `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Mode         string   `json:"mode" yaml:"mode"`
	PartialMatch bool     `json:"partialMatch,omitempty" yaml:"partial_match,omitempty"`
	Tags         []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Members      []string `json:"members" yaml:"members"`
}

func newGroupView(g edge.Group, ref edge.ReferenceData) groupView {
	members := []string{}
	for _, e := range edge.MatchEndpoints(g, ref.Endpoints) {
		members = append(members, e.Name)
	}
	v := groupView{
		ID:      g.ID,
		Name:    g.Name,
		Mode:    string(g.Mode()),
		Members: members,
	}
	if g.Dynamic {
		v.PartialMatch = g.PartialMatch
		v.Tags = ref.TagNames(g.TagIDs)
	}
	return v
}

func matchLabel(v groupView) string {
	if v.Mode != string(edge.ModeDynamic) {
		return "-"
	}
	if v.PartialMatch {
		return "any"
	}
	return "all"
}

func listCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:       "list groups|tags|endpoints",
		Aliases:   []string{"ls", "l"},
		Short:     "Print edge groups, tags or endpoints",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"groups", "tags", "endpoints"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			e, err := opts.open()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			ref, err := e.store.ReferenceData(ctx)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			switch args[0] {
			case "groups":
				groups, err := e.store.Groups(ctx)
				if err != nil {
					return err
				}
				return writeGroups(w, format, groups, ref)
			case "tags":
				return writeTags(w, format, ref)
			case "endpoints":
				return writeEndpoints(w, format, ref)
			}
			return fmt.Errorf("unknown list subject %q: use groups, tags or endpoints", args[0])
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", formatTable, "output format: table, json or yaml")
	_ = cmd.RegisterFlagCompletionFunc("output", formatCompletion)
	return cmd
}

func showCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:               "show NAME",
		Short:             "Print one edge group with its resolved members",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: groupNameCompletion(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			e, err := opts.open()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			g, err := e.store.GroupByName(ctx, args[0])
			if err != nil {
				return fmt.Errorf("show %q: %w", args[0], err)
			}
			ref, err := e.store.ReferenceData(ctx)
			if err != nil {
				return err
			}
			return writeGroup(cmd.OutOrStdout(), format, newGroupView(g, ref))
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", formatTable, "output format: table, json or yaml")
	_ = cmd.RegisterFlagCompletionFunc("output", formatCompletion)
	return cmd
}

func checkFormat(f string) error {
	switch f {
	case formatTable, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q: use table, json or yaml", f)
}

func writeGroups(w io.Writer, format string, groups []edge.Group, ref edge.ReferenceData) error {
	views := make([]groupView, 0, len(groups))
	for _, g := range groups {
		views = append(views, newGroupView(g, ref))
	}
	switch format {
	case formatJSON:
		return printJSON(w, views)
	case formatYAML:
		return printYAML(w, views)
	}

	rows := make([][]any, 0, len(views))
	for _, v := range views {
		rows = append(rows, []any{strconv.Itoa(v.ID), v.Name, v.Mode, matchLabel(v), orDash(strings.Join(v.Tags, ", ")), strconv.Itoa(len(v.Members))})
	}
	return printTable(w, []string{"ID", "NAME", "MODE", "MATCH", "TAGS", "ENDPOINTS"}, rows, "no edge groups")
}

func writeGroup(w io.Writer, format string, v groupView) error {
	switch format {
	case formatJSON:
		return printJSON(w, v)
	case formatYAML:
		return printYAML(w, v)
	}

	rows := [][]any{
		{"id", strconv.Itoa(v.ID)},
		{"name", v.Name},
		{"mode", v.Mode},
	}
	if v.Mode == string(edge.ModeDynamic) {
		rows = append(rows,
			[]any{"match", matchLabel(v)},
			[]any{"tags", orDash(strings.Join(v.Tags, ", "))},
		)
	}
	rows = append(rows, []any{"members", orDash(strings.Join(v.Members, ", "))})
	return printTable(w, []string{"FIELD", "VALUE"}, rows, "")
}

func writeTags(w io.Writer, format string, ref edge.ReferenceData) error {
	switch format {
	case formatJSON:
		return printJSON(w, nonNil(ref.Tags))
	case formatYAML:
		return printYAML(w, nonNil(ref.Tags))
	}

	rows := make([][]any, 0, len(ref.Tags))
	for _, t := range ref.Tags {
		n := 0
		for _, e := range ref.Endpoints {
			for _, id := range e.TagIDs {
				if id == t.ID {
					n++
					break
				}
			}
		}
		rows = append(rows, []any{strconv.Itoa(t.ID), t.Name, strconv.Itoa(n)})
	}
	return printTable(w, []string{"ID", "NAME", "ENDPOINTS"}, rows, "no tags")
}

func writeEndpoints(w io.Writer, format string, ref edge.ReferenceData) error {
	switch format {
	case formatJSON:
		return printJSON(w, nonNil(ref.Endpoints))
	case formatYAML:
		return printYAML(w, nonNil(ref.Endpoints))
	}

	rows := make([][]any, 0, len(ref.Endpoints))
	for _, e := range ref.Endpoints {
		rows = append(rows, []any{strconv.Itoa(e.ID), e.Name, orDash(e.URL), orDash(strings.Join(ref.TagNames(e.TagIDs), ", "))})
	}
	return printTable(w, []string{"ID", "NAME", "URL", "TAGS"}, rows, "no endpoints")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func printTable(w io.Writer, headers []string, rows [][]any, empty string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, empty)
		return err
	}
	t := gotabulate.Create(rows)
	t.SetHeaders(headers)
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(60)
	_, err := fmt.Fprint(w, t.Render("grid"))
	return err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
