package transport

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/blackox/loomd/internal/daemon"
)

type pathsResponse struct {
	Paths       []string `json:"paths"`
	ActivePaths []string `json:"active_paths"`
}

func (t *Transport) handleInterfaces(w http.ResponseWriter, r *http.Request) {
	var resp pathsResponse
	t.daemon.Do(func() {
		resp = pathsResponse{
			Paths:       t.daemon.Interfaces.Paths(),
			ActivePaths: t.daemon.Interfaces.ActivePaths(),
		}
	})
	respondOK(w, resp)
}

func (t *Transport) handleInterface(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	path := daemon.BasePath + "/Interface/" + name

	var found bool
	var body map[string]any
	t.daemon.Do(func() {
		iface, ok := t.daemon.Interfaces.ByPath(path)
		found = ok
		if ok {
			body = map[string]any{
				"name":    iface.Name(),
				"address": iface.MAC(),
				"state":   iface.State(),
				"carrier": iface.Carrier(),
			}
		}
	})
	if !found {
		respondError(w, http.StatusBadRequest, "InvalidArgument", "no such 'interface' object found")
		return
	}
	respondOK(w, body)
}

func (t *Transport) handleSettingsList(w http.ResponseWriter, r *http.Request) {
	var resp pathsResponse
	t.daemon.Do(func() {
		resp = pathsResponse{
			Paths:       t.daemon.Settings.Paths(),
			ActivePaths: t.daemon.Settings.ActivePaths(),
		}
	})
	respondOK(w, resp)
}

func (t *Transport) handleSettingsCreate(w http.ResponseWriter, r *http.Request) {
	var cfg map[string]any
	if err := decodeBody(r, &cfg); err != nil {
		respondError(w, http.StatusBadRequest, "TransportError", "malformed configuration body")
		return
	}

	var path string
	var err error
	t.daemon.Do(func() {
		path, err = t.daemon.Settings.Create(cfg)
	})
	if t.audit != nil {
		t.audit.Log(actorFrom(r), "Settings.create", path, err)
	}
	if err != nil {
		respondOpError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"path": path})
}

func (t *Transport) handleSettingsDestroy(w http.ResponseWriter, r *http.Request) {
	path := daemon.BasePath + "/Setting_" + mux.Vars(r)["id"]

	var err error
	t.daemon.Do(func() {
		err = t.daemon.Settings.Destroy(path)
	})
	if t.audit != nil {
		t.audit.Log(actorFrom(r), "Settings.destroy", path, err)
	}
	if err != nil {
		respondOpError(w, err)
		return
	}
	respondOK(w, map[string]string{"path": path})
}

func (t *Transport) handleSetting(w http.ResponseWriter, r *http.Request) {
	path := daemon.BasePath + "/Setting_" + mux.Vars(r)["id"]

	var found bool
	var body map[string]any
	t.daemon.Do(func() {
		setting, ok := t.daemon.Settings.ByPath(path)
		found = ok
		if ok {
			body = map[string]any{
				"uuid":         setting.UUID(),
				"address":      setting.Address(),
				"router":       setting.Router(),
				"name_servers": setting.Nameservers(),
				"domain":       setting.Domain(),
				"searches":     setting.Searches(),
			}
		}
	})
	if !found {
		respondError(w, http.StatusBadRequest, "InvalidArgument", "no such 'setting' object found")
		return
	}
	respondOK(w, body)
}

func (t *Transport) handleConnectionsList(w http.ResponseWriter, r *http.Request) {
	var resp pathsResponse
	t.daemon.Do(func() {
		resp = pathsResponse{
			Paths:       t.daemon.Connections.Paths(),
			ActivePaths: t.daemon.Connections.ActivePaths(),
		}
	})
	respondOK(w, resp)
}

type createConnectionRequest struct {
	Interface string `json:"interface"`
	Setting   string `json:"setting"`
}

func (t *Transport) handleConnectionsCreate(w http.ResponseWriter, r *http.Request) {
	var req createConnectionRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "TransportError", "malformed connection body")
		return
	}

	var path string
	var err error
	t.daemon.Do(func() {
		path, err = t.daemon.Connections.Create(req.Interface, req.Setting)
	})
	if t.audit != nil {
		t.audit.Log(actorFrom(r), "Connections.create", path, err)
	}
	if err != nil {
		respondOpError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"path": path})
}

func (t *Transport) handleConnectionsDestroy(w http.ResponseWriter, r *http.Request) {
	path := daemon.BasePath + "/Connection_" + mux.Vars(r)["id"]

	var err error
	t.daemon.Do(func() {
		err = t.daemon.Connections.Destroy(path)
	})
	if t.audit != nil {
		t.audit.Log(actorFrom(r), "Connections.destroy", path, err)
	}
	if err != nil {
		respondOpError(w, err)
		return
	}
	respondOK(w, map[string]string{"path": path})
}

func (t *Transport) handleConnectionsAdd(w http.ResponseWriter, r *http.Request) {
	path := daemon.BasePath + "/Connection_" + mux.Vars(r)["id"]

	var err error
	t.daemon.Do(func() {
		err = t.daemon.Connections.Add(path)
	})
	if t.audit != nil {
		t.audit.Log(actorFrom(r), "Connections.add", path, err)
	}
	if err != nil {
		respondOpError(w, err)
		return
	}
	t.notifyActivation(path)
	respondOK(w, map[string]string{"path": path})
}

func (t *Transport) handleConnectionsDelete(w http.ResponseWriter, r *http.Request) {
	path := daemon.BasePath + "/Connection_" + mux.Vars(r)["id"]

	var err error
	t.daemon.Do(func() {
		err = t.daemon.Connections.Delete(path)
	})
	if t.audit != nil {
		t.audit.Log(actorFrom(r), "Connections.delete", path, err)
	}
	if err != nil {
		respondOpError(w, err)
		return
	}
	t.notifyActivation(path)
	respondOK(w, map[string]string{"path": path})
}

func (t *Transport) handleConnection(w http.ResponseWriter, r *http.Request) {
	path := daemon.BasePath + "/Connection_" + mux.Vars(r)["id"]

	var found bool
	var body map[string]any
	t.daemon.Do(func() {
		conn, ok := t.daemon.Connections.ByPath(path)
		found = ok
		if ok {
			body = map[string]any{
				"interface": conn.Interface().ObjectPath(),
				"setting":   conn.Setting().ObjectPath(),
			}
		}
	})
	if !found {
		respondError(w, http.StatusBadRequest, "InvalidArgument", "no such 'connection' object found")
		return
	}
	respondOK(w, body)
}

// notifyActivation broadcasts the Connections active_paths list after a
// successful add/delete, for clients tracking activation state.
func (t *Transport) notifyActivation(path string) {
	if t.hub == nil {
		return
	}
	var active []string
	t.daemon.Do(func() {
		active = t.daemon.Connections.ActivePaths()
	})
	t.hub.Changed(daemon.BasePath+"/Connections", map[string]any{"active_paths": active})
}
