package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/purrlog/internal/model"
)

// productFlags collects data-product options shared by new and add.
type productFlags struct {
	copy     []string
	move     []string
	ignore   []string
	rename   []string
	comments []string
}

func (pf *productFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&pf.copy, "copy", nil, "Copy FILE into the entry (repeatable)")
	cmd.Flags().StringArrayVar(&pf.move, "move", nil, "Move FILE into the entry (repeatable)")
	cmd.Flags().StringArrayVar(&pf.ignore, "ignore", nil, "Record FILE as ignored (repeatable)")
	cmd.Flags().StringArrayVar(&pf.rename, "rename", nil, "Store FILE under another name: FILE=NAME (repeatable)")
	cmd.Flags().StringArrayVar(&pf.comments, "dp-comment", nil, "Attach a comment to FILE: FILE=TEXT (repeatable)")
}

// build turns the flags into unsaved data products with absolute paths,
// in copy, move, ignore order.
func (pf *productFlags) build() ([]*model.DataProduct, error) {
	renames, err := parseAssignments(pf.rename)
	if err != nil {
		return nil, fmt.Errorf("--rename: %w", err)
	}
	comments, err := parseAssignments(pf.comments)
	if err != nil {
		return nil, fmt.Errorf("--dp-comment: %w", err)
	}

	var dps []*model.DataProduct
	add := func(files []string, policy model.Policy) error {
		for _, f := range files {
			abs, err := filepath.Abs(f)
			if err != nil {
				return err
			}
			rename := lookup(renames, f, abs)
			if strings.ContainsRune(rename, filepath.Separator) {
				return fmt.Errorf("rename target %q must be a bare file name", rename)
			}
			dps = append(dps, model.NewDataProduct(abs, policy, rename, lookup(comments, f, abs)))
		}
		return nil
	}
	if err := add(pf.copy, model.PolicyCopy); err != nil {
		return nil, err
	}
	if err := add(pf.move, model.PolicyMove); err != nil {
		return nil, err
	}
	if err := add(pf.ignore, model.PolicyIgnore); err != nil {
		return nil, err
	}
	return dps, nil
}

// parseAssignments splits KEY=VALUE pairs. The value may contain '='.
func parseAssignments(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("expected FILE=VALUE, got %q", p)
		}
		out[k] = v
	}
	return out, nil
}

// lookup finds a value keyed by either the path as typed or its absolute form.
func lookup(m map[string]string, raw, abs string) string {
	if v, ok := m[raw]; ok {
		return v
	}
	return m[abs]
}
