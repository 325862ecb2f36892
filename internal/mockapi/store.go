package mockapi

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// store is an ordered in-memory collection keyed by id.
type store[T any] struct {
	mu    sync.RWMutex
	items []T
	id    func(T) string
	setID func(*T, string)
}

func newStore[T any](id func(T) string, setID func(*T, string)) *store[T] {
	return &store[T]{id: id, setID: setID}
}

func (st *store[T]) add(item T) T {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.id(item) == "" {
		st.setID(&item, uuid.NewString())
	}
	st.items = append(st.items, item)
	return item
}

func (st *store[T]) find(id string) (int, bool) {
	for i, item := range st.items {
		if st.id(item) == id {
			return i, true
		}
	}
	return -1, false
}

func mountStore[T any](r *mux.Router, path string, st *store[T]) {
	r.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		st.mu.RLock()
		out := make([]T, len(st.items))
		copy(out, st.items)
		st.mu.RUnlock()
		writeJSON(w, http.StatusOK, map[string]any{"data": out})
	}).Methods(http.MethodGet)

	r.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		var item T
		if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadSize)).Decode(&item); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json body")
			return
		}
		st.setID(&item, "")
		writeJSON(w, http.StatusCreated, map[string]any{"data": st.add(item)})
	}).Methods(http.MethodPost)

	r.HandleFunc(path+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		st.mu.RLock()
		defer st.mu.RUnlock()
		i, ok := st.find(mux.Vars(r)["id"])
		if !ok {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": st.items[i]})
	}).Methods(http.MethodGet)

	r.HandleFunc(path+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		var patch map[string]any
		if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadSize)).Decode(&patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json body")
			return
		}

		st.mu.Lock()
		defer st.mu.Unlock()
		i, ok := st.find(id)
		if !ok {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		// apply the patch through a JSON round trip
		current, _ := json.Marshal(st.items[i])
		var merged map[string]any
		_ = json.Unmarshal(current, &merged)
		for k, v := range patch {
			merged[k] = v
		}
		data, _ := json.Marshal(merged)
		var updated T
		if err := json.Unmarshal(data, &updated); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		st.setID(&updated, id)
		st.items[i] = updated
		writeJSON(w, http.StatusOK, map[string]any{"data": updated})
	}).Methods(http.MethodPatch)

	r.HandleFunc(path+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		st.mu.Lock()
		defer st.mu.Unlock()
		i, ok := st.find(mux.Vars(r)["id"])
		if !ok {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		st.items = append(st.items[:i], st.items[i+1:]...)
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodDelete)
}
