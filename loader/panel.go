package loader

import (
	"fmt"

	"github.com/uyouii/ahis-analysis/common"
	"github.com/uyouii/ahis-analysis/model"
)

const DefaultGroup = "unspecified"

var (
	PanelBaseColumns  = []string{"coupon_id", "config", "area_m2", "thickness_mm"}
	PanelMassColumns  = []string{"mass_g", "mass_kg"}
	NormalizedColumns = []string{"group", "areal_density_kg_m2", "thickness_mm"}
)

// PanelRecord is one validated panel metadata row with mass resolved to kg.
type PanelRecord struct {
	CouponID    string
	Config      string
	Group       string
	MassKg      float64
	AreaM2      float64
	ThicknessMM float64
	Notes       string
}

// ReadPanelMetadata reads coupon metadata. mass_kg takes precedence over mass_g
// when both are populated on a row.
func ReadPanelMetadata(path string) ([]PanelRecord, error) {
	table, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	if err := table.Require(PanelBaseColumns...); err != nil {
		return nil, err
	}
	if !table.Has("mass_g") && !table.Has("mass_kg") {
		return nil, fmt.Errorf("missing mass column in %s, provide one of: %v: %w",
			path, PanelMassColumns, common.ErrorMissingColumn)
	}
	if err := table.RequireRows(); err != nil {
		return nil, err
	}

	res := make([]PanelRecord, 0, len(table.Rows))
	for i := range table.Rows {
		record, err := panelRecord(table, i)
		if err != nil {
			return nil, err
		}
		res = append(res, record)
	}
	return res, nil
}

func panelRecord(table *Table, i int) (PanelRecord, error) {
	record := PanelRecord{
		CouponID: table.Value(i, "coupon_id"),
		Config:   table.Value(i, "config"),
		Group:    table.Value(i, "group"),
		Notes:    table.Value(i, "notes"),
	}
	if record.Group == "" {
		record.Group = DefaultGroup
	}
	if record.CouponID == "" {
		return record, fmt.Errorf("empty coupon_id in %s at row %d: %w", table.Path, FileRow(i), common.ErrorInvalidValue)
	}
	if record.Config == "" {
		return record, fmt.Errorf("empty config in %s at row %d: %w", table.Path, FileRow(i), common.ErrorInvalidValue)
	}

	var err error
	if record.AreaM2, err = table.PositiveFloat(i, "area_m2"); err != nil {
		return record, err
	}
	if record.ThicknessMM, err = table.PositiveFloat(i, "thickness_mm"); err != nil {
		return record, err
	}
	if record.MassKg, err = rowMassKg(table, i); err != nil {
		return record, err
	}
	return record, nil
}

func rowMassKg(table *Table, i int) (float64, error) {
	if table.Value(i, "mass_kg") != "" {
		return table.PositiveFloat(i, "mass_kg")
	}
	if table.Value(i, "mass_g") != "" {
		massG, err := table.PositiveFloat(i, "mass_g")
		if err != nil {
			return 0, err
		}
		return massG / 1000.0, nil
	}
	return 0, fmt.Errorf("row %d in %s has neither mass_g nor mass_kg populated: %w",
		FileRow(i), table.Path, common.ErrorInvalidValue)
}

// ReadNormalizedPanels reads a normalized panel metrics file back. Only group,
// areal density and thickness are required; the other columns are kept when present.
func ReadNormalizedPanels(path string) ([]model.PanelMetrics, error) {
	table, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	if err := table.RequireRows(); err != nil {
		return nil, err
	}
	if err := table.Require(NormalizedColumns...); err != nil {
		return nil, err
	}

	res := make([]model.PanelMetrics, 0, len(table.Rows))
	for i := range table.Rows {
		panel := model.PanelMetrics{
			CouponID: table.Value(i, "coupon_id"),
			Config:   table.Value(i, "config"),
			Group:    table.Value(i, "group"),
			Notes:    table.Value(i, "notes"),
		}
		if panel.Group == "" {
			return nil, fmt.Errorf("empty group in %s at row %d: %w", path, FileRow(i), common.ErrorInvalidValue)
		}
		if panel.ArealDensityKgM2, err = table.PositiveFloat(i, "areal_density_kg_m2"); err != nil {
			return nil, err
		}
		if panel.ThicknessMM, err = table.PositiveFloat(i, "thickness_mm"); err != nil {
			return nil, err
		}
		if table.Value(i, "mass_kg") != "" {
			if panel.MassKg, err = table.Float(i, "mass_kg"); err != nil {
				return nil, err
			}
		}
		if table.Value(i, "area_m2") != "" {
			if panel.AreaM2, err = table.Float(i, "area_m2"); err != nil {
				return nil, err
			}
		}
		res = append(res, panel)
	}
	return res, nil
}
