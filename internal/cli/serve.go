package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/flowgridhq/flowgrid/pkg/store"
)

// serveCommand creates the "serve" command: a read-only JSON inspection
// server over a registry. Documents given on the command line are loaded
// into one instance each.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve <document.json>...",
		Short: "Expose instance state as a read-only JSON API",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			opts, err := cfg.Options()
			if err != nil {
				return err
			}
			opts.Logger = logger
			opts.ID = "" // one auto-identified instance per document

			registry := store.NewRegistry(logger)
			defer registry.DisposeAll()

			for _, path := range args {
				doc, err := loadDocument(path)
				if err != nil {
					return err
				}
				instOpts := opts
				instOpts.Nodes = doc.Nodes
				instOpts.Edges = doc.Edges
				st := registry.Create(instOpts)
				logger.Info("loaded document", "path", path, "instance", st.ID(),
					"nodes", st.NodeCount(), "edges", st.EdgeCount())
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           inspectionRouter(registry),
				ReadHeaderTimeout: 5 * time.Second,
			}

			go func() {
				<-cmd.Context().Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			printInfo("serving %d instances on %s", registry.Len(), addr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to flowgrid.toml")
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8090", "listen address")
	return cmd
}

// inspectionRouter builds the read-only API. All handlers are GETs; nothing
// here mutates an instance.
func inspectionRouter(registry *store.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/instances", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, registry.IDs())
	})

	r.Route("/instances/{id}", func(r chi.Router) {
		r.Use(instanceCtx(registry))

		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			st := instanceFromContext(req.Context())
			writeJSON(w, http.StatusOK, map[string]any{
				"id":       st.ID(),
				"nodes":    st.NodeCount(),
				"edges":    st.EdgeCount(),
				"viewport": st.Viewport(),
			})
		})
		r.Get("/nodes", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, instanceFromContext(req.Context()).Nodes())
		})
		r.Get("/edges", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, instanceFromContext(req.Context()).Edges())
		})
		r.Get("/viewport", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, instanceFromContext(req.Context()).Viewport())
		})
	})

	return r
}

// instanceKey is the context key for the resolved instance.
const instanceKey ctxKey = 1

// instanceCtx resolves the {id} URL parameter against the registry and puts
// the instance on the request context. Unknown identifiers are a 404.
func instanceCtx(registry *store.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			id := chi.URLParam(req, "id")
			st, ok := registry.Get(id)
			if !ok {
				writeJSON(w, http.StatusNotFound, map[string]string{
					"error": fmt.Sprintf("instance %q not found", id),
				})
				return
			}
			ctx := context.WithValue(req.Context(), instanceKey, st)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

func instanceFromContext(ctx context.Context) *store.Store {
	return ctx.Value(instanceKey).(*store.Store)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
