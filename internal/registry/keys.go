package registry

import (
	"github.com/nfrund/vrcadmin/internal/activity"
	"github.com/nfrund/vrcadmin/internal/backend"
	"github.com/nfrund/vrcadmin/internal/hub"
	"github.com/nfrund/vrcadmin/internal/scan"
)

// Shared service keys.
const (
	BackendKey     Key[*backend.Client] = "backend.client"
	ScanManagerKey Key[*scan.Manager]   = "scan.manager"
	ActivityKey    Key[*activity.Feed]  = "activity.feed"
	HubKey         Key[*hub.Hub]        = "activity.hub"
)
