package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/packwiz/launchwiz/cmdshared"
	"github.com/packwiz/launchwiz/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Run an HTTP server for installing and launching versions",
	Long:    `Run an HTTP server exposing /install?version=<id> (a stream of progress events) and /launch?version=<id> (the launch command as JSON, with launch options and a comma separated features list as further query parameters)`,
	Aliases: []string{"server"},
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		port := strconv.Itoa(viper.GetInt("serve.port"))
		store, err := cmdshared.NewStore()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		platform := core.DetectPlatform()
		installer := cmdshared.NewInstaller(store, platform, logger.Named("installer"))
		srv := newLaunchServer(store, platform, installer, logger.Named("serve"))

		fmt.Println("Running on port " + port)
		err = http.ListenAndServe(":"+port, srv.routes())
		if err != nil {
			fmt.Printf("Error running server: %s\n", err)
			os.Exit(1)
		}
	},
}

type launchServer struct {
	store     *core.Store
	platform  core.Platform
	installer *core.Installer
	logger    hclog.Logger
	// Installs hold the write lock; concurrent installs into one root are not safe
	installMutex sync.RWMutex
}

func newLaunchServer(store *core.Store, platform core.Platform, installer *core.Installer, logger hclog.Logger) *launchServer {
	return &launchServer{store: store, platform: platform, installer: installer, logger: logger}
}

func (s *launchServer) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/install", s.handleInstall)
	mux.HandleFunc("/launch", s.handleLaunch)
	return mux
}

func (s *launchServer) handleInstall(w http.ResponseWriter, req *http.Request) {
	version := req.URL.Query().Get("version")
	if version == "" {
		http.Error(w, "Minecraft version is required.", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	send := func(e core.ProgressEvent) {
		data, err := json.Marshal(e)
		if err != nil {
			return
		}
		_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
		if flusher != nil {
			flusher.Flush()
		}
	}

	s.installMutex.Lock()
	defer s.installMutex.Unlock()
	if err := s.installer.InstallVersion(req.Context(), version, send); err != nil {
		s.logger.Error("installation failed", "version", version, "error", err)
		send(core.ProgressEvent{Status: "Error: " + err.Error(), Error: true})
		return
	}
	send(core.ProgressEvent{Status: "Installation complete!", Progress: 100})
}

func (s *launchServer) handleLaunch(w http.ResponseWriter, req *http.Request) {
	query := req.URL.Query()
	version := query.Get("version")
	if version == "" {
		http.Error(w, "Minecraft version is required.", http.StatusBadRequest)
		return
	}

	params := make(map[string]interface{})
	for k := range query {
		if k != "version" && k != "features" {
			params[k] = query.Get(k)
		}
	}
	// features is a comma separated list of flags to enable
	if list := query.Get("features"); list != "" {
		features := make(map[string]interface{})
		for _, name := range strings.Split(list, ",") {
			if name = strings.TrimSpace(name); name != "" {
				features[name] = true
			}
		}
		params["features"] = features
	}
	requested, err := core.OptionsFromMap(params)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return
	}

	version, err = s.installer.ResolveID(req.Context(), version)
	if err != nil {
		writeJSONError(w, http.StatusBadGateway, err)
		return
	}

	s.installMutex.RLock()
	defer s.installMutex.RUnlock()
	profile, err := core.LoadProfile(s.store)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err)
		return
	}
	command, err := core.GetLaunchCommand(s.store, s.platform, version, profile.Launch.WithOverrides(requested))
	if err != nil {
		s.logger.Error("failed to get launch command", "version", version, "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, core.ErrNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, core.ErrUnsupportedFeature) {
			status = http.StatusBadRequest
		}
		writeJSONError(w, status, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(command)
}

func writeJSONError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "The port to run the server on")
	_ = viper.BindPFlag("serve.port", serveCmd.Flags().Lookup("port"))
}
