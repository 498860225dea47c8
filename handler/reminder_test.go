package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/deividastamosaitis/objektai/model"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeReminderStore struct {
	reminders []model.Reminder
}

func (f *fakeReminderStore) Create(ctx context.Context, r *model.Reminder) (*model.Reminder, error) {
	r.ID = primitive.NewObjectID()
	f.reminders = append(f.reminders, *r)
	return r, nil
}

func (f *fakeReminderStore) List(ctx context.Context) ([]model.Reminder, error) {
	return f.reminders, nil
}

func TestReminderHandlerCreate(t *testing.T) {
	store := &fakeReminderStore{}
	handler := NewReminderHandler(store)

	router := gin.New()
	router.POST("/reminders", handler.Create)

	tests := []struct {
		name           string
		body           map[string]any
		expectedStatus int
	}{
		{
			name: "valid reminder",
			body: map[string]any{
				"email":   "jonas@todesa.lt",
				"subject": "Priminimas",
				"message": "Paskambinti klientui",
				"sendAt":  time.Now().Add(time.Hour).Format(time.RFC3339),
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "missing subject",
			body: map[string]any{
				"email":   "jonas@todesa.lt",
				"message": "Paskambinti klientui",
				"sendAt":  time.Now().Add(time.Hour).Format(time.RFC3339),
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "bad email",
			body: map[string]any{
				"email":   "ne-pastas",
				"subject": "Priminimas",
				"message": "Paskambinti klientui",
				"sendAt":  time.Now().Add(time.Hour).Format(time.RFC3339),
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest("POST", "/reminders", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestReminderHandlerList(t *testing.T) {
	store := &fakeReminderStore{reminders: []model.Reminder{
		{ID: primitive.NewObjectID(), Email: "jonas@todesa.lt", Subject: "Priminimas", Message: "Skambutis", SendAt: time.Now()},
	}}
	handler := NewReminderHandler(store)

	router := gin.New()
	router.GET("/reminders", handler.List)

	req := httptest.NewRequest("GET", "/reminders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var response map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response["count"] != float64(1) {
		t.Errorf("Expected count 1, got %v", response["count"])
	}
}
