package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"salva-mascotas/internal/platform/tasks"
	"salva-mascotas/internal/router"
)

// stubScorer devuelve siempre el mismo score; alcanza para probar el
// cableado completo sin hablar con el proveedor real.
type stubScorer struct {
	score float64
}

func (s stubScorer) MatchScore(ctx context.Context, lostPhotoURL, foundPhotoURL string) float64 {
	return s.score
}

func newTestServer(t *testing.T, score float64) (*httptest.Server, *tasks.Runner) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")

	log := zap.NewNop().Sugar()
	runner := tasks.NewRunner(log, 0)

	ts := httptest.NewServer(router.NewRouter(router.Options{
		Scorer: stubScorer{score: score},
		Tasks:  runner,
		Log:    log,
	}))
	t.Cleanup(ts.Close)
	return ts, runner
}

func TestHTTP_EndToEnd_MatchLifecycle(t *testing.T) {
	ts, runner := newTestServer(t, 0.85)

	// 1) Se reporta una mascota perdida
	lostID := createReport(t, ts.URL, "/api/pets/lost", map[string]string{
		"name":      "Firulais",
		"ownerName": "Marta",
		"type":      "perro",
		"lat":       "-34.6037",
		"lng":       "-58.3816",
	})

	// 2) Se reporta una encontrada; el discovery oportunista corre en background
	foundID := createReport(t, ts.URL, "/api/pets/found", map[string]string{
		"reporterName": "vecina",
		"type":         "perro",
		"lat":          "-34.61",
		"lng":          "-58.39",
	})
	runner.Wait()

	// 3) El match aparece pendiente, enriquecido con ambos reportes
	var matchID string
	{
		st, body := doReq(t, ts.URL, "GET", "/api/matches", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 listing pending, got %d body=%s", st, string(body))
		}

		var pending []struct {
			ID        string  `json:"id"`
			LostPetID string  `json:"lost_pet_id"`
			Score     float64 `json:"score"`
			Validated bool    `json:"validated"`
			LostPet   *struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"lost_pets"`
			FoundPet *struct {
				ID string `json:"id"`
			} `json:"found_pets"`
		}
		mustUnmarshal(t, body, &pending)

		if len(pending) != 1 {
			t.Fatalf("expected 1 pending match, got %d body=%s", len(pending), string(body))
		}
		m := pending[0]
		if m.Score != 0.85 || m.Validated {
			t.Fatalf("unexpected pending match: %+v", m)
		}
		if m.LostPet == nil || m.LostPet.ID != lostID || m.LostPet.Name != "Firulais" {
			t.Fatalf("expected embedded lost report, got %+v", m.LostPet)
		}
		if m.FoundPet == nil || m.FoundPet.ID != foundID {
			t.Fatalf("expected embedded found report, got %+v", m.FoundPet)
		}
		matchID = m.ID
	}

	// 4) Filtros por reporte
	{
		st, body := doReq(t, ts.URL, "GET", "/api/matches/lost/"+lostID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 listing by lost, got %d", st)
		}
		var items []json.RawMessage
		mustUnmarshal(t, body, &items)
		if len(items) != 1 {
			t.Fatalf("expected 1 match for lost report, got %d", len(items))
		}
	}

	// 5) Confirmar es idempotente
	for i := 0; i < 2; i++ {
		st, body := doReq(t, ts.URL, "POST", "/api/matches/"+matchID+"/confirm", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 confirm (attempt %d), got %d body=%s", i+1, st, string(body))
		}
		var m struct {
			Validated bool `json:"validated"`
		}
		mustUnmarshal(t, body, &m)
		if !m.Validated {
			t.Fatalf("expected validated=true after confirm")
		}
	}

	// 6) El match ya no está pendiente, está validado
	{
		st, body := doReq(t, ts.URL, "GET", "/api/matches", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 listing pending, got %d", st)
		}
		var pending []json.RawMessage
		mustUnmarshal(t, body, &pending)
		if len(pending) != 0 {
			t.Fatalf("expected no pending matches after confirm, got %d", len(pending))
		}

		st, body = doReq(t, ts.URL, "GET", "/api/matches/validated", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 listing validated, got %d", st)
		}
		var validated []json.RawMessage
		mustUnmarshal(t, body, &validated)
		if len(validated) != 1 {
			t.Fatalf("expected 1 validated match, got %d", len(validated))
		}
	}

	// 7) Disparo manual: re-corre el discovery sin duplicar el par
	{
		st, body := doReq(t, ts.URL, "POST", "/api/ai/match/"+foundID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 manual trigger, got %d body=%s", st, string(body))
		}
		var resp struct {
			OK      bool `json:"ok"`
			Matches []struct {
				ID string `json:"id"`
			} `json:"matches"`
		}
		mustUnmarshal(t, body, &resp)
		if !resp.OK || len(resp.Matches) != 1 {
			t.Fatalf("expected 1 match from manual trigger, got %s", string(body))
		}
		if resp.Matches[0].ID != matchID {
			t.Fatalf("manual trigger must upsert the same row, got %s vs %s", resp.Matches[0].ID, matchID)
		}
	}

	// 8) Borrar dos veces: las dos responden ok
	for i := 0; i < 2; i++ {
		st, body := doReq(t, ts.URL, "DELETE", "/api/matches/"+matchID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 delete (attempt %d), got %d body=%s", i+1, st, string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/api/matches/validated", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 listing validated, got %d", st)
		}
		var validated []json.RawMessage
		mustUnmarshal(t, body, &validated)
		if len(validated) != 0 {
			t.Fatalf("expected no validated matches after delete, got %d", len(validated))
		}
	}
}

func TestHTTP_ManualTrigger_UnknownFoundIs404(t *testing.T) {
	ts, _ := newTestServer(t, 0.9)

	st, _ := doReq(t, ts.URL, "POST", "/api/ai/match/no-such-found", nil)
	if st != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown found report, got %d", st)
	}
}

func TestHTTP_DegradedOracle_ProducesNoMatches(t *testing.T) {
	// scorer que siempre devuelve 0 (mismo comportamiento que el cliente
	// sin credenciales): el reporte entra igual, solo que sin matches
	ts, runner := newTestServer(t, 0)

	createReport(t, ts.URL, "/api/pets/lost", map[string]string{
		"name": "Firulais",
		"lat":  "-34.6",
		"lng":  "-58.4",
	})
	createReport(t, ts.URL, "/api/pets/found", map[string]string{
		"lat": "-34.61",
		"lng": "-58.39",
	})
	runner.Wait()

	st, body := doReq(t, ts.URL, "GET", "/api/matches", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 listing pending, got %d", st)
	}
	var pending []json.RawMessage
	mustUnmarshal(t, body, &pending)
	if len(pending) != 0 {
		t.Fatalf("expected no matches with degraded oracle, got %d", len(pending))
	}
}

func TestHTTP_CreateReport_RejectsMalformedInput(t *testing.T) {
	ts, _ := newTestServer(t, 0.9)

	// sin foto => 400
	{
		st, _ := postMultipart(t, ts.URL+"/api/pets/lost", map[string]string{
			"name": "Firulais",
			"lat":  "-34.6",
			"lng":  "-58.4",
		}, false)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 without photo, got %d", st)
		}
	}

	// lat no numérica => 400
	{
		st, _ := postMultipart(t, ts.URL+"/api/pets/found", map[string]string{
			"lat": "not-a-number",
			"lng": "-58.4",
		}, true)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for malformed lat, got %d", st)
		}
	}

	// lat fuera de rango => 400 (la valida el service)
	{
		st, _ := postMultipart(t, ts.URL+"/api/pets/lost", map[string]string{
			"name": "Firulais",
			"lat":  "120",
			"lng":  "-58.4",
		}, true)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for out-of-range lat, got %d", st)
		}
	}

	// fecha ilegible => 400
	{
		st, _ := postMultipart(t, ts.URL+"/api/pets/found", map[string]string{
			"lat":        "-34.6",
			"lng":        "-58.4",
			"found_date": "ayer a la tarde",
		}, true)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for malformed date, got %d", st)
		}
	}
}

func TestHTTP_UpdateAndDeleteReport(t *testing.T) {
	ts, runner := newTestServer(t, 0)

	lostID := createReport(t, ts.URL, "/api/pets/lost", map[string]string{
		"name": "Firulais",
		"lat":  "-34.6",
		"lng":  "-58.4",
	})
	runner.Wait()

	// PUT parcial: solo color
	{
		st, body := doReqJSON(t, ts.URL, "PUT", "/api/pets/lost/"+lostID, map[string]any{
			"color": "marrón",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 update, got %d body=%s", st, string(body))
		}
		var resp struct {
			Name  string `json:"name"`
			Color string `json:"color"`
		}
		mustUnmarshal(t, body, &resp)
		if resp.Color != "marrón" || resp.Name != "Firulais" {
			t.Fatalf("unexpected patched report: %+v", resp)
		}
	}

	// PUT sobre id inexistente => 404
	{
		st, _ := doReqJSON(t, ts.URL, "PUT", "/api/pets/lost/no-such-id", map[string]any{
			"color": "negro",
		})
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 updating unknown report, got %d", st)
		}
	}

	// DELETE y el listado queda vacío
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/api/pets/lost/"+lostID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 delete, got %d", st)
		}
		st, body := doReq(t, ts.URL, "GET", "/api/pets/lost", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 listing lost, got %d", st)
		}
		var items []json.RawMessage
		mustUnmarshal(t, body, &items)
		if len(items) != 0 {
			t.Fatalf("expected empty lost list after delete, got %d", len(items))
		}
	}
}

func TestHTTP_Near_FiltersByRadius(t *testing.T) {
	ts, runner := newTestServer(t, 0)

	// uno cerca del obelisco, otro en la otra punta
	createReport(t, ts.URL, "/api/pets/lost", map[string]string{
		"name": "cerca",
		"lat":  "-34.6037",
		"lng":  "-58.3816",
	})
	createReport(t, ts.URL, "/api/pets/lost", map[string]string{
		"name": "lejos",
		"lat":  "-34.90",
		"lng":  "-58.38",
	})
	runner.Wait()

	st, body := doReq(t, ts.URL, "GET", "/api/pets/near?lat=-34.6037&lng=-58.3816&radiusKm=5", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 near, got %d body=%s", st, string(body))
	}

	var resp struct {
		Lost []struct {
			Name string `json:"name"`
		} `json:"lost"`
		Found []json.RawMessage `json:"found"`
	}
	mustUnmarshal(t, body, &resp)
	if len(resp.Lost) != 1 || resp.Lost[0].Name != "cerca" {
		t.Fatalf("expected only the nearby report, got %s", string(body))
	}

	// sin coordenadas => 400
	st, _ = doReq(t, ts.URL, "GET", "/api/pets/near", nil)
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 without coordinates, got %d", st)
	}
}

// -------------------------
// Helpers
// -------------------------

func createReport(t *testing.T, baseURL, path string, fields map[string]string) string {
	t.Helper()

	st, body := postMultipart(t, baseURL+path, fields, true)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 creating report at %s, got %d body=%s", path, st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	mustUnmarshal(t, body, &resp)
	if resp.ID == "" {
		t.Fatalf("create report: missing id body=%s", string(body))
	}
	return resp.ID
}

func postMultipart(t *testing.T, url string, fields map[string]string, withPhoto bool) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if withPhoto {
		fw, err := mw.CreateFormFile("photo", "pet.jpg")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write([]byte{0xff, 0xd8, 0xff, 0xe0}); err != nil {
			t.Fatalf("write photo: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req, err := http.NewRequest("POST", url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	return res.StatusCode, body
}

func mustUnmarshal(t *testing.T, data []byte, out any) {
	t.Helper()

	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("json unmarshal: %v body=%s", err, string(data))
	}
}

func doReq(t *testing.T, baseURL, method, path string, body io.Reader) (int, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}

func doReqJSON(t *testing.T, baseURL, method, path string, payload any) (int, []byte) {
	t.Helper()

	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}

	req, err := http.NewRequest(method, baseURL+path, bytes.NewReader(b))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
