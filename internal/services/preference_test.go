package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/yungbote/roadmap-backend/internal/data/repos/testutil"
	"github.com/yungbote/roadmap-backend/internal/platform/ctxutil"
	"github.com/yungbote/roadmap-backend/internal/realtime"
)

func TestPreferencePutGetDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := editorCtx()
	key := testutil.Unique("grid.columns")

	if _, err := env.prefs.Put(ctx, key, json.RawMessage(`{"name":240}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := env.prefs.Put(ctx, key, json.RawMessage(`{"name":310,"area":120}`)); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, err := env.prefs.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	var widths map[string]int
	if err := json.Unmarshal(got.Value, &widths); err != nil {
		t.Fatalf("decode value: %v", err)
	}
	if widths["name"] != 310 || widths["area"] != 120 {
		t.Fatalf("value: want name=310 area=120 got=%v", widths)
	}

	msg, ok := env.emit.last()
	if !ok || msg.Event != realtime.SSEEventPreferenceChanged || msg.Channel != realtime.UserChannel(4242) {
		t.Fatalf("event: want PreferenceChanged on user:4242 got=%+v", msg)
	}

	other := ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: 4343, Email: "other@example.com"})
	_, err = env.prefs.Get(other, key)
	wantAPIError(t, err, http.StatusNotFound, "not_found")

	if err := env.prefs.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, err = env.prefs.Get(ctx, key)
	wantAPIError(t, err, http.StatusNotFound, "not_found")
	err = env.prefs.Delete(ctx, key)
	wantAPIError(t, err, http.StatusNotFound, "not_found")
}

func TestPreferenceValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.prefs.Put(editorCtx(), "k", json.RawMessage(`{"broken"`))
	wantAPIError(t, err, http.StatusBadRequest, "invalid_json")

	_, err = env.prefs.Put(editorCtx(), "   ", json.RawMessage(`1`))
	wantAPIError(t, err, http.StatusBadRequest, "invalid_key")

	_, err = env.prefs.Get(context.Background(), "k")
	wantAPIError(t, err, http.StatusUnauthorized, "unauthorized")
}
