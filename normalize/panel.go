package normalize

import (
	"context"
	"fmt"
	"sort"

	"github.com/uyouii/ahis-analysis/loader"
	"github.com/uyouii/ahis-analysis/model"
	"github.com/uyouii/ahis-analysis/utils"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

func ToPanelMetrics(ctx context.Context, records []loader.PanelRecord) ([]model.PanelMetrics, error) {
	logger := utils.GetLogger(ctx)

	res := make([]model.PanelMetrics, 0, len(records))
	for _, r := range records {
		ad, err := ArealDensity(r.MassKg, r.AreaM2)
		if err != nil {
			logger.Error("ArealDensity failed", zap.String("couponID", r.CouponID), zap.Error(err))
			return nil, fmt.Errorf("coupon %s: %w", r.CouponID, err)
		}
		res = append(res, model.PanelMetrics{
			CouponID:         r.CouponID,
			Config:           r.Config,
			Group:            r.Group,
			MassKg:           r.MassKg,
			AreaM2:           r.AreaM2,
			ThicknessMM:      r.ThicknessMM,
			ArealDensityKgM2: ad,
			Notes:            r.Notes,
		})
	}

	logger.Info("normalize panels success", zap.Int("panels", len(res)))
	return res, nil
}

// AggregateByGroup averages areal density and thickness per group. The mean mass
// is only set for groups where every panel has a positive mass.
func AggregateByGroup(panels []model.PanelMetrics) map[string]*model.PanelGroupAgg {
	densities := map[string][]float64{}
	thicknesses := map[string][]float64{}
	masses := map[string][]float64{}
	for _, p := range panels {
		densities[p.Group] = append(densities[p.Group], p.ArealDensityKgM2)
		thicknesses[p.Group] = append(thicknesses[p.Group], p.ThicknessMM)
		masses[p.Group] = append(masses[p.Group], p.MassKg)
	}

	res := make(map[string]*model.PanelGroupAgg, len(densities))
	for group, ad := range densities {
		res[group] = &model.PanelGroupAgg{
			Group:                group,
			N:                    len(ad),
			MeanArealDensityKgM2: stat.Mean(ad, nil),
			MeanThicknessMM:      stat.Mean(thicknesses[group], nil),
		}
		if floats.Min(masses[group]) > 0 {
			res[group].MeanMassKg = stat.Mean(masses[group], nil)
		}
	}
	return res
}

func GroupNames(aggs map[string]*model.PanelGroupAgg) []string {
	res := make([]string, 0, len(aggs))
	for group := range aggs {
		res = append(res, group)
	}
	sort.Strings(res)
	return res
}
