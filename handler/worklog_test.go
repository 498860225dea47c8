package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deividastamosaitis/objektai/model"
	"github.com/deividastamosaitis/objektai/service"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeWorkLogStore struct {
	entries map[primitive.ObjectID]*model.WorkLog
}

func newFakeWorkLogStore() *fakeWorkLogStore {
	return &fakeWorkLogStore{entries: make(map[primitive.ObjectID]*model.WorkLog)}
}

func (f *fakeWorkLogStore) Create(ctx context.Context, entry *model.WorkLog) (*model.WorkLog, error) {
	entry.ID = primitive.NewObjectID()
	f.entries[entry.ID] = entry
	return entry, nil
}

func (f *fakeWorkLogStore) List(ctx context.Context) ([]model.WorkLog, error) {
	var out []model.WorkLog
	for _, e := range f.entries {
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeWorkLogStore) Update(ctx context.Context, id primitive.ObjectID, data, username string) (*model.WorkLog, error) {
	entry, ok := f.entries[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	entry.Data = data
	entry.Username = username
	return entry, nil
}

func (f *fakeWorkLogStore) ToggleDone(ctx context.Context, id primitive.ObjectID) (*model.WorkLog, error) {
	entry, ok := f.entries[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	entry.Done = !entry.Done
	return entry, nil
}

func (f *fakeWorkLogStore) Delete(ctx context.Context, id primitive.ObjectID) (*model.WorkLog, error) {
	entry, ok := f.entries[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	delete(f.entries, id)
	return entry, nil
}

func workLogRouter(store *fakeWorkLogStore, username string) *gin.Engine {
	handler := NewWorkLogHandler(store)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userName", username)
	})
	router.GET("/darbai", handler.List)
	router.POST("/darbai", handler.Create)
	router.PATCH("/darbai/:id", handler.Update)
	router.PATCH("/darbai/:id/done", handler.ToggleDone)
	router.DELETE("/darbai/:id", handler.Delete)
	return router
}

func TestWorkLogHandlerCreate(t *testing.T) {
	store := newFakeWorkLogStore()
	router := workLogRouter(store, "Jonas")

	body, _ := json.Marshal(map[string]string{"data": "Sumontuota kamera Kauno g. 1"})
	req := httptest.NewRequest("POST", "/darbai", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	for _, entry := range store.entries {
		if entry.Username != "Jonas" {
			t.Errorf("Expected author stamp, got %q", entry.Username)
		}
	}
}

func TestWorkLogHandlerCreateValidation(t *testing.T) {
	router := workLogRouter(newFakeWorkLogStore(), "Jonas")

	req := httptest.NewRequest("POST", "/darbai", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestWorkLogHandlerToggleDone(t *testing.T) {
	store := newFakeWorkLogStore()
	entry, _ := store.Create(context.Background(), &model.WorkLog{Data: "Patikrinti NVR"})
	router := workLogRouter(store, "Jonas")

	req := httptest.NewRequest("PATCH", "/darbai/"+entry.ID.Hex()+"/done", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !entry.Done {
		t.Error("Expected entry to be marked done")
	}
}

func TestWorkLogHandlerUpdateStampsEditor(t *testing.T) {
	store := newFakeWorkLogStore()
	entry, _ := store.Create(context.Background(), &model.WorkLog{Data: "Patikrinti NVR", Username: "Jonas"})
	router := workLogRouter(store, "Petras")

	body, _ := json.Marshal(map[string]string{"data": "Patikrinti NVR ir router"})
	req := httptest.NewRequest("PATCH", "/darbai/"+entry.ID.Hex(), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if entry.Username != "Petras" {
		t.Errorf("Expected editor stamp, got %q", entry.Username)
	}
}

func TestWorkLogHandlerDelete(t *testing.T) {
	store := newFakeWorkLogStore()
	entry, _ := store.Create(context.Background(), &model.WorkLog{Data: "Patikrinti NVR"})
	router := workLogRouter(store, "Jonas")

	req := httptest.NewRequest("DELETE", "/darbai/"+entry.ID.Hex(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if len(store.entries) != 0 {
		t.Error("Expected entry to be removed")
	}

	// Deleting again is a 404.
	req = httptest.NewRequest("DELETE", "/darbai/"+entry.ID.Hex(), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}
