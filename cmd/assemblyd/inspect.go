package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"assemblyd/pkg/types"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func newInspectCmd() *cobra.Command {
	var server, match string
	cmd := &cobra.Command{
		Use:     "inspect",
		Short:   "Print the registered types of a running server",
		Example: "  assemblyd inspect --server http://127.0.0.1:8080 --match session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			resp, err := fetchTypes(ctx, http.DefaultClient, server, match)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), renderTypes(resp.Types)+"\n")
			return err
		},
	}
	cmd.Flags().StringVar(&server, "server", "http://127.0.0.1:8080", "Base URL of a running assemblyd")
	cmd.Flags().StringVar(&match, "match", "", "Fuzzy filter on type keys")
	return cmd
}

func fetchTypes(ctx context.Context, c *http.Client, base, match string) (types.TypesResponse, error) {
	var out types.TypesResponse
	u := strings.TrimRight(base, "/") + "/types"
	if match != "" {
		u += "?match=" + url.QueryEscape(match)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return out, err
	}
	resp, err := c.Do(req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		var e types.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return out, fmt.Errorf("GET /types: %s: %s", resp.Status, e.Error)
	}
	err = json.NewDecoder(resp.Body).Decode(&out)
	return out, err
}

func renderTypes(ts []types.TypeSummary) string {
	if len(ts) == 0 {
		return "no registered types"
	}
	rows := make([][]string, 0, len(ts))
	for _, t := range ts {
		rows = append(rows, []string{
			t.Key,
			strconv.Itoa(t.Instances),
			strconv.Itoa(t.ListenersActive),
			strconv.Itoa(t.ListenersPaused),
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("TYPE", "INSTANCES", "ACTIVE", "PAUSED").
		Rows(rows...).
		String()
}
