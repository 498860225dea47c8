package service

import (
	"fmt"
	"strings"

	"github.com/deividastamosaitis/objektai/model"
	"github.com/xuri/excelize/v2"
)

// installationSheet is the tab name of the export workbook.
const installationSheet = "Montavimas"

// BuildInstallationWorkbook renders the job's installation record as a
// label/value spreadsheet grouped by section. Returns ErrValidation when the
// job has no installation yet.
func BuildInstallationWorkbook(job *model.Job) (*excelize.File, error) {
	if job.Installation == nil {
		return nil, fmt.Errorf("%w: job has no installation record", ErrValidation)
	}
	inst := job.Installation

	f := excelize.NewFile()
	index, err := f.NewSheet(installationSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	sectionStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create section style: %w", err)
	}

	row := 1
	section := func(title string) error {
		cell := fmt.Sprintf("A%d", row)
		if err := f.SetCellValue(installationSheet, cell, title); err != nil {
			return err
		}
		if err := f.SetCellStyle(installationSheet, cell, fmt.Sprintf("B%d", row), sectionStyle); err != nil {
			return err
		}
		row++
		return nil
	}
	pair := func(label, value string) error {
		if err := f.SetCellValue(installationSheet, fmt.Sprintf("A%d", row), label); err != nil {
			return err
		}
		if err := f.SetCellValue(installationSheet, fmt.Sprintf("B%d", row), value); err != nil {
			return err
		}
		row++
		return nil
	}

	write := func() error {
		if err := section("Adresas ir kontaktai"); err != nil {
			return err
		}
		if err := pair("Adresas", inst.Address); err != nil {
			return err
		}
		if err := pair("Kontaktinis asmuo", inst.Contact.Name); err != nil {
			return err
		}
		if err := pair("Telefonas", inst.Contact.Phone); err != nil {
			return err
		}

		if err := section("Įranga"); err != nil {
			return err
		}
		if err := pair("Sistema", inst.System); err != nil {
			return err
		}
		if err := pair("NVR", inst.NVR); err != nil {
			return err
		}
		if err := pair("NVR SN", inst.NVRSerial); err != nil {
			return err
		}
		if err := pair("Papildoma įranga", inst.ExtraEquipment); err != nil {
			return err
		}

		if err := section("Kameros"); err != nil {
			return err
		}
		for i, cam := range inst.Cameras {
			if err := pair(fmt.Sprintf("Kamera %d: %s", i+1, cam.Name), cam.Serial); err != nil {
				return err
			}
		}
		if dups := inst.DuplicateSerials(); len(dups) > 0 {
			if err := pair("Pasikartojantys SN", strings.Join(dups, ", ")); err != nil {
				return err
			}
		}

		if err := section("Tinklas"); err != nil {
			return err
		}
		if err := pair("Kamerų IP", inst.Network.CameraIP); err != nil {
			return err
		}
		if err := pair("Routerio IP", inst.Network.RouterIP); err != nil {
			return err
		}
		if err := pair("NVR IP", inst.Network.NVRIP); err != nil {
			return err
		}

		if err := section("Prisijungimai"); err != nil {
			return err
		}
		if err := pair("NVR", inst.Logins.NVR); err != nil {
			return err
		}

		if err := section("Kita"); err != nil {
			return err
		}
		if !inst.CommissionedAt.IsZero() {
			if err := pair("Paleidimo data", inst.CommissionedAt.Format("2006-01-02")); err != nil {
				return err
			}
		}
		if !inst.PerformedBy.IsZero() {
			if err := pair("Atliko", inst.PerformedBy.Hex()); err != nil {
				return err
			}
		}
		return nil
	}

	if err := write(); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to fill workbook: %w", err)
	}

	if err := f.SetColWidth(installationSheet, "A", "A", 28); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(installationSheet, "B", "B", 40); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	return f, nil
}
