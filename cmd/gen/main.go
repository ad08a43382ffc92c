package main

import (
	"coffeexport/internal/infra/persistence/model"

	"gorm.io/gen"
)

// Generates typed query helpers for the persistence models.
func main() {
	models := []any{
		model.ExporterProfileModel{},
		model.CoffeeLaboratoryModel{},
		model.CoffeeTasterModel{},
		model.CompetenceCertificateModel{},
		model.ExportLicenseModel{},
		model.CoffeeLotModel{},
		model.QualityInspectionModel{},
		model.SalesContractModel{},
		model.ExportModel{},
		model.ExportStatusHistoryModel{},
		model.ExportApprovalModel{},
		model.AuditLogModel{},
	}

	gen := gen.NewGenerator(gen.Config{
		OutPath: "./internal/infra/persistence/postgres/query",
		Mode:    gen.WithDefaultQuery | gen.WithQueryInterface,
	})

	gen.ApplyBasic(models...)

	gen.Execute()
}
