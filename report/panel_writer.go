package report

import (
	"github.com/uyouii/ahis-analysis/model"
	"github.com/uyouii/ahis-analysis/utils"
)

const NormalizedPanelsFile = "normalized_panel_metrics.csv"

var NormalizedPanelsHeader = []string{
	"coupon_id", "config", "group", "mass_kg", "area_m2", "thickness_mm", "areal_density_kg_m2", "notes",
}

func WriteNormalizedPanels(path string, panels []model.PanelMetrics) error {
	rows := make([][]string, 0, len(panels))
	for _, p := range panels {
		rows = append(rows, []string{
			p.CouponID,
			p.Config,
			p.Group,
			utils.FloatString(p.MassKg),
			utils.FloatString(p.AreaM2),
			utils.FloatString(p.ThicknessMM),
			utils.FloatString(p.ArealDensityKgM2),
			p.Notes,
		})
	}
	return writeCSV(path, NormalizedPanelsHeader, rows)
}
