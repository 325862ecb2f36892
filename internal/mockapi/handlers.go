package mockapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/propdesk/propdesk/internal/domain"
	"github.com/propdesk/propdesk/internal/search"
)

const maxUploadSize = 16 << 20

func (s *Server) listHandler(source func() []domain.Property) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, page, err := domain.ParseQueryValues(r.URL.Query())
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		s.mu.RLock()
		items := search.Filter(source(), s.search, q.Search)
		items = domain.FilterProperties(items, q.Filter)
		items = domain.SortProperties(items, q.Sort)
		result := domain.Paginate(items, page, q.PageSize)
		s.mu.RUnlock()

		writeJSON(w, http.StatusOK, result)
	}
}

// record merges the typed fields of p with any extra fields it was
// created with.
func (s *Server) record(p domain.Property) map[string]any {
	out := make(map[string]any, len(s.extra[p.ID])+8)
	for k, v := range s.extra[p.ID] {
		out[k] = v
	}
	data, _ := json.Marshal(p)
	var typed map[string]any
	_ = json.Unmarshal(data, &typed)
	for k, v := range typed {
		out[k] = v
	}
	return out
}

func (s *Server) findProperty(id string) int {
	for i, p := range s.properties {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func decodeRecord(r *http.Request) (map[string]any, error) {
	var payload map[string]any
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadSize)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("invalid json body: %w", err)
	}
	return payload, nil
}

func toProperty(record map[string]any) (domain.Property, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return domain.Property{}, err
	}
	var p domain.Property
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.Property{}, err
	}
	return p, nil
}

func (s *Server) getPropertyHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.findProperty(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "property not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": s.record(s.properties[i])})
}

func (s *Server) createPropertyHandler(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeRecord(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := toProperty(payload)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if p.Title == "" {
		writeError(w, http.StatusUnprocessableEntity, "propertyTitle is required")
		return
	}
	if !p.Category.IsValid() || !p.Purpose.IsValid() {
		writeError(w, http.StatusUnprocessableEntity, "category and purpose are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = uuid.NewString()
	if p.Status == "" {
		p.Status = domain.StatusAvailable
	}
	p.CreatedAt = s.timestamp()
	p.UpdatedAt = p.CreatedAt
	s.properties = append(s.properties, p)
	s.extra[p.ID] = payload
	writeJSON(w, http.StatusCreated, map[string]any{"data": p})
}

func (s *Server) updatePropertyHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	patch, err := decodeRecord(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findProperty(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "property not found")
		return
	}
	merged := s.record(s.properties[i])
	for k, v := range patch {
		merged[k] = v
	}
	p, err := toProperty(merged)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	p.ID = id
	p.CreatedAt = s.properties[i].CreatedAt
	p.UpdatedAt = s.timestamp()
	s.properties[i] = p
	s.extra[id] = merged
	writeJSON(w, http.StatusOK, map[string]any{"data": p})
}

func (s *Server) listDraftsHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	out := make([]domain.Draft, 0, len(s.draftOrder))
	for _, id := range s.draftOrder {
		out = append(out, s.drafts[id])
	}
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt > out[j].UpdatedAt })
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

func (s *Server) getDraftHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	d, ok := s.drafts[mux.Vars(r)["id"]]
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "draft not found")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func decodeDraftData(r *http.Request) (map[string]any, error) {
	var body struct {
		Data map[string]any `json:"data"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadSize)).Decode(&body); err != nil {
		return nil, fmt.Errorf("invalid json body: %w", err)
	}
	if body.Data == nil {
		body.Data = map[string]any{}
	}
	return body.Data, nil
}

func (s *Server) createDraftHandler(w http.ResponseWriter, r *http.Request) {
	data, err := decodeDraftData(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	d := domain.Draft{ID: uuid.NewString(), Data: data, UpdatedAt: s.timestamp()}
	s.drafts[d.ID] = d
	s.draftOrder = append(s.draftOrder, d.ID)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) updateDraftHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	data, err := decodeDraftData(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drafts[id]; !ok {
		writeError(w, http.StatusNotFound, "draft not found")
		return
	}
	d := domain.Draft{ID: id, Data: data, UpdatedAt: s.timestamp()}
	s.drafts[id] = d
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) deleteDraftHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drafts[id]; !ok {
		writeError(w, http.StatusNotFound, "draft not found")
		return
	}
	delete(s.drafts, id)
	for i, did := range s.draftOrder {
		if did == id {
			s.draftOrder = append(s.draftOrder[:i], s.draftOrder[i+1:]...)
			break
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) uploadHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form: "+err.Error())
		return
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.documents[id] = document{name: hdr.Filename, contentType: hdr.Header.Get("Content-Type"), data: data}
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]string{"url": "/documents/" + id})
}

func (s *Server) documentHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	doc, ok := s.documents[mux.Vars(r)["id"]]
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	contentType := doc.contentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.name))
	_, _ = w.Write(doc.data)
}

func (s *Server) createNOCHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.NOCRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadSize)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	docID := uuid.NewString()
	rec := domain.NOCRecord{
		ID:           uuid.NewString(),
		DocumentURL:  "/documents/" + docID,
		OwnerName:    req.OwnerName,
		PermitNumber: req.PermitNumber,
		CreatedAt:    s.timestamp(),
	}
	s.mu.Lock()
	s.documents[docID] = document{
		name:        "noc-" + rec.ID + ".pdf",
		contentType: "application/pdf",
		data:        renderNOC(rec),
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, rec)
}

// renderNOC produces a tiny stand-in PDF for a generated NOC.
func renderNOC(rec domain.NOCRecord) []byte {
	return []byte(fmt.Sprintf("%%PDF-1.4\n%% No Objection Certificate\n%% owner: %s\n%% permit: %s\n%% issued: %s\n%%%%EOF\n",
		rec.OwnerName, rec.PermitNumber, rec.CreatedAt))
}
