package service

import (
	"errors"
	"testing"
	"time"

	"github.com/deividastamosaitis/objektai/model"
)

func TestBuildInstallationWorkbook(t *testing.T) {
	job := &model.Job{
		Name:    "Jonas",
		Address: "X g. 1, Kaunas",
		Installation: &model.Installation{
			Address: "X g. 1, Kaunas",
			Contact: model.Contact{Name: "Jonas", Phone: "37060000000"},
			System:  "Hikvision",
			NVR:     "DS-7608",
			Cameras: []model.Camera{
				{Name: "Kiemas", Serial: "SN-100"},
				{Name: "Garazas", Serial: "SN-200"},
				{Name: "Sandelis", Serial: "SN-100"},
			},
			Network:        model.Network{CameraIP: "192.168.10.0/24", RouterIP: "192.168.1.1", NVRIP: "192.168.1.20"},
			Logins:         model.Logins{NVR: "admin/slaptas"},
			CommissionedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	f, err := BuildInstallationWorkbook(job)
	if err != nil {
		t.Fatalf("BuildInstallationWorkbook failed: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(installationSheet)
	if err != nil {
		t.Fatalf("Failed to read rows: %v", err)
	}

	flat := map[string]string{}
	for _, row := range rows {
		if len(row) >= 2 {
			flat[row[0]] = row[1]
		}
	}

	if flat["Adresas"] != "X g. 1, Kaunas" {
		t.Errorf("Unexpected address cell: %q", flat["Adresas"])
	}
	if flat["Kamera 1: Kiemas"] != "SN-100" {
		t.Errorf("Expected first camera row, got %q", flat["Kamera 1: Kiemas"])
	}
	if flat["Kamera 3: Sandelis"] != "SN-100" {
		t.Errorf("Camera order must be preserved, got %q", flat["Kamera 3: Sandelis"])
	}
	if flat["Pasikartojantys SN"] != "SN-100" {
		t.Errorf("Duplicate serials should be flagged, got %q", flat["Pasikartojantys SN"])
	}
	if flat["Routerio IP"] != "192.168.1.1" {
		t.Errorf("Unexpected router IP cell: %q", flat["Routerio IP"])
	}
	if flat["NVR IP"] != "192.168.1.20" {
		t.Errorf("Unexpected NVR IP cell: %q", flat["NVR IP"])
	}
	if flat["Paleidimo data"] != "2026-08-01" {
		t.Errorf("Unexpected commissioning date cell: %q", flat["Paleidimo data"])
	}
}

func TestBuildInstallationWorkbookWithoutInstallation(t *testing.T) {
	_, err := BuildInstallationWorkbook(&model.Job{Name: "Jonas"})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation, got %v", err)
	}
}
