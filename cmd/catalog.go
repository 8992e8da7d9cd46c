package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dotcommander/auditscore/internal/catalog"
	"github.com/dotcommander/auditscore/internal/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show the active checklist catalog",
	Long: `The catalog command lists the categories and items audits are rated against,
with each category's criticality and weighting coefficient.

The built-in catalog is used unless --catalog names a YAML file:

  version: "1.0"
  categories:
    - ordinal: 1
      name: FOOD SAFETY
      criticality: CRITICAL
      coefficient: 3
      items:
        - id: SEC-001
          question: HACCP plan documented and up to date`,
	Args: cobra.NoArgs,
	Run:  run(runCatalog),
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <catalog.yaml>",
	Short: "Check a catalog file",
	Args:  cobra.ExactArgs(1),
	Run:   run(runCatalogValidate),
}

func init() {
	catalogCmd.AddCommand(catalogValidateCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, _ []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.finish()

	w := cmd.OutOrStdout()
	switch a.cfg.Format {
	case types.FormatJSON:
		return writeCatalogJSON(w, a.catalog)
	case types.FormatMarkdown:
		writeCatalogMarkdown(w, a.catalog)
	default:
		writeCatalogConsole(w, a.catalog)
	}
	return nil
}

func runCatalogValidate(cmd *cobra.Command, args []string) error {
	c, err := catalog.Load(args[0])
	if err != nil {
		var malformed *catalog.MalformedError
		if errors.As(err, &malformed) {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d categories, %d items\n", args[0], c.NumCategories(), c.Len())
	return nil
}

type catalogJSON struct {
	Categories []categoryJSON `json:"categories"`
	TotalItems int            `json:"total_items"`
}

type categoryJSON struct {
	Ordinal     int               `json:"ordinal"`
	Name        string            `json:"name"`
	Criticality types.Criticality `json:"criticality"`
	Coefficient float64           `json:"coefficient"`
	Items       []itemJSON        `json:"items"`
}

type itemJSON struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Guidance string `json:"guidance,omitempty"`
}

func writeCatalogJSON(w io.Writer, c *catalog.Catalog) error {
	out := catalogJSON{Categories: []categoryJSON{}, TotalItems: c.Len()}
	for _, cat := range c.Categories() {
		cj := categoryJSON{
			Ordinal:     cat.Ordinal,
			Name:        cat.Name,
			Criticality: cat.Criticality,
			Coefficient: cat.Coefficient,
			Items:       make([]itemJSON, 0, len(cat.Items)),
		}
		for _, it := range cat.Items {
			cj.Items = append(cj.Items, itemJSON(it))
		}
		out.Categories = append(out.Categories, cj)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeCatalogMarkdown(w io.Writer, c *catalog.Catalog) {
	fmt.Fprintf(w, "# Audit Catalog\n\n%d categories, %d items\n", c.NumCategories(), c.Len())
	for _, cat := range c.Categories() {
		fmt.Fprintf(w, "\n## %s\n\n", cat.Title())
		fmt.Fprintf(w, "Criticality: **%s**, coefficient %g\n\n", cat.Criticality, cat.Coefficient)
		fmt.Fprintln(w, "| ID | Question |")
		fmt.Fprintln(w, "|----|----------|")
		for _, it := range cat.Items {
			fmt.Fprintf(w, "| %s | %s |\n", it.ID, strings.ReplaceAll(it.Question, "|", "\\|"))
		}
	}
}

var criticalityColors = map[types.Criticality]string{
	types.CriticalityCritical: "9",
	types.CriticalityMajor:    "11",
	types.CriticalityStandard: "12",
}

func writeCatalogConsole(w io.Writer, c *catalog.Catalog) {
	heading := lipgloss.NewStyle().Bold(true)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	for i, cat := range c.Categories() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		tag := lipgloss.NewStyle().Foreground(lipgloss.Color(criticalityColors[cat.Criticality])).
			Render(string(cat.Criticality))
		fmt.Fprintf(w, "%s  %s %s\n", heading.Render(cat.Title()), tag, dim.Render(fmt.Sprintf("x%g", cat.Coefficient)))
		for _, it := range cat.Items {
			fmt.Fprintf(w, "  %-10s %s\n", it.ID, it.Question)
		}
	}
	fmt.Fprintf(w, "\n%s\n", dim.Render(fmt.Sprintf("%d categories, %d items", c.NumCategories(), c.Len())))
}
