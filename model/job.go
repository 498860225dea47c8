package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Job status labels used across the UI and exports.
const (
	StatusEkspozicija     = "Ekspozicija"
	StatusEkspozicijaRyt  = "Ekspozicija-Rytoj"
	StatusMontavimas      = "Montavimas"
	StatusMontavimasSkubu = "Montavimas-SKUBU"
	StatusPasiulyta       = "Pasiulyta"
	StatusBaigta          = "Baigta"
)

// JobStatuses lists every accepted jobStatus value.
var JobStatuses = []string{
	StatusEkspozicija,
	StatusEkspozicijaRyt,
	StatusMontavimas,
	StatusMontavimasSkubu,
	StatusPasiulyta,
	StatusBaigta,
}

// ValidJobStatus reports whether s is one of the fixed status labels.
func ValidJobStatus(s string) bool {
	for _, v := range JobStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// WeekDays lists the accepted weekly-schedule-day tags.
var WeekDays = []string{"Pirmadienis", "Antradienis", "Treciadienis", "Ketvirtadienis", "Penktadienis", "Sestadienis", "Sekmadienis"}

// ValidWeekDay reports whether d is a recognized schedule day.
func ValidWeekDay(d string) bool {
	for _, v := range WeekDays {
		if v == d {
			return true
		}
	}
	return false
}

// Camera is one camera line inside an installation record. Cameras have no
// identity of their own; list order is the display order.
type Camera struct {
	Name   string `bson:"pavadinimas" json:"pavadinimas"`
	Serial string `bson:"sn" json:"sn"`
}

// Network holds the three address roles configured during installation.
type Network struct {
	CameraIP string `bson:"kameruIP,omitempty" json:"kameruIP,omitempty"`
	RouterIP string `bson:"routerioIP,omitempty" json:"routerioIP,omitempty"`
	NVRIP    string `bson:"nvrIP,omitempty" json:"nvrIP,omitempty"`
}

// Logins holds recorder access credentials recorded as-built.
type Logins struct {
	NVR string `bson:"nvr,omitempty" json:"nvr,omitempty"`
}

// Contact is the customer contact snapshot copied into the installation.
type Contact struct {
	Name  string `bson:"vardas,omitempty" json:"vardas,omitempty"`
	Phone string `bson:"telefonas,omitempty" json:"telefonas,omitempty"`
}

// Installation is the as-built record embedded in a Job. It is replaced
// wholesale on every save; there is no per-field merge.
type Installation struct {
	Address        string             `bson:"adresas,omitempty" json:"adresas,omitempty"`
	Contact        Contact            `bson:"kontaktai,omitempty" json:"kontaktai,omitempty"`
	System         string             `bson:"irangosSistema,omitempty" json:"irangosSistema,omitempty"`
	NVR            string             `bson:"nvr,omitempty" json:"nvr,omitempty"`
	NVRSerial      string             `bson:"nvrSN,omitempty" json:"nvrSN,omitempty"`
	Cameras        []Camera           `bson:"kameros,omitempty" json:"kameros,omitempty"`
	ExtraEquipment string             `bson:"papildomaIranga,omitempty" json:"papildomaIranga,omitempty"`
	Network        Network            `bson:"tinklas,omitempty" json:"tinklas,omitempty"`
	Logins         Logins             `bson:"prisijungimai,omitempty" json:"prisijungimai,omitempty"`
	CommissionedAt time.Time          `bson:"paleidimoData,omitempty" json:"paleidimoData,omitempty"`
	PerformedBy    primitive.ObjectID `bson:"atliko,omitempty" json:"atliko,omitempty"`
	UpdatedAt      time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// Job is one installation engagement for a customer/site.
type Job struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name         string             `bson:"vardas" json:"vardas"`
	Phone        string             `bson:"telefonas" json:"telefonas"`
	Address      string             `bson:"adresas" json:"adresas"`
	Email        string             `bson:"email,omitempty" json:"email,omitempty"`
	Lat          string             `bson:"lat,omitempty" json:"lat,omitempty"`
	Lng          string             `bson:"lng,omitempty" json:"lng,omitempty"`
	Status       string             `bson:"jobStatus" json:"jobStatus"`
	WeekDay      string             `bson:"weekDay,omitempty" json:"weekDay,omitempty"`
	Muted        bool               `bson:"prislopintas" json:"prislopintas"`
	Info         string             `bson:"info,omitempty" json:"info,omitempty"`
	Images       []string           `bson:"images,omitempty" json:"images,omitempty"`
	CreatedBy    primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	Installation *Installation      `bson:"montavimas,omitempty" json:"montavimas,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DuplicateSerials returns the serial numbers that appear on more than one
// camera. Duplicates are surfaced to the user but never rejected.
func (i *Installation) DuplicateSerials() []string {
	seen := make(map[string]int)
	for _, cam := range i.Cameras {
		if cam.Serial == "" {
			continue
		}
		seen[cam.Serial]++
	}
	var dups []string
	for _, cam := range i.Cameras {
		if seen[cam.Serial] > 1 {
			seen[cam.Serial] = 0
			dups = append(dups, cam.Serial)
		}
	}
	return dups
}
