package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func handleListImages(store Store, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		images, err := store.ListImages(r.Context())
		if err != nil {
			writeStoreError(w, err)
			return
		}

		infos := make([]ImageInfo, 0, len(images))
		for _, img := range images {
			infos = append(infos, *imageInfo(img, opts))
		}
		writeJSON(w, http.StatusOK, infos)
	}
}

func handleGetImage(store Store, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		img, err := store.GetImage(r.Context(), chi.URLParam(r, "imageID"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, imageInfo(img, opts))
	}
}
