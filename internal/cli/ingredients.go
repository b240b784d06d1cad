package cli

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tbourn/foodgram-backend/internal/config"
	"github.com/tbourn/foodgram-backend/internal/domain"
	"github.com/tbourn/foodgram-backend/internal/services"
)

// NewLoadIngredientsCommand creates the load-ingredients command.
func NewLoadIngredientsCommand(_ *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "load-ingredients <file>",
		Short: "Import the ingredient catalog",
		Long: `Import ingredients from a CSV or JSON file in one transaction.

CSV rows are "name,measurement_unit"; a leading header row with those names
is skipped. JSON is an array of {"name": ..., "measurement_unit": ...}.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := readIngredientsFile(args[0])
			if err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore(db)

			n, err := services.NewCatalogService(db).ImportIngredients(cmd.Context(), rows)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d ingredients\n", n)
			return nil
		},
	}
}

func readIngredientsFile(path string) ([]domain.Ingredient, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return parseIngredientsJSON(f)
	}
	return parseIngredientsCSV(f)
}

func parseIngredientsCSV(r io.Reader) ([]domain.Ingredient, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true

	var out []domain.Ingredient
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "name") &&
			strings.EqualFold(strings.TrimSpace(rec[1]), "measurement_unit") {
			continue
		}
		out = append(out, domain.Ingredient{Name: rec[0], MeasurementUnit: rec[1]})
	}
	return out, nil
}

func parseIngredientsJSON(r io.Reader) ([]domain.Ingredient, error) {
	var rows []struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
	}
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode ingredients: %w", err)
	}
	out := make([]domain.Ingredient, len(rows))
	for i, row := range rows {
		out[i] = domain.Ingredient{Name: row.Name, MeasurementUnit: row.MeasurementUnit}
	}
	return out, nil
}
