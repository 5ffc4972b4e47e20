package cmd

import (
	"github.com/openclaw/openclaw/internal/agent"
	"github.com/openclaw/openclaw/internal/bus"
	"github.com/openclaw/openclaw/internal/config"
	"github.com/openclaw/openclaw/internal/gateway"
	"github.com/openclaw/openclaw/internal/gateway/methods"
	"github.com/openclaw/openclaw/internal/store"
	"github.com/openclaw/openclaw/internal/tools"
)

// registerAllMethods builds and registers every domain method group against
// server's router. Standalone mode has no agent/config-secrets/team store,
// so agentStore/configSecretsStore/teamStore are nil here — the handlers
// that would need them (agents.*, config.patch's secret merge, teams.*) are
// simply not registered; isManaged stays false until a managed-mode store
// ships (see DESIGN.md).
func registerAllMethods(
	server *gateway.Server,
	agentRouter *agent.Router,
	sessStore store.SessionStore,
	cronStore store.CronStore,
	pairingStore store.PairingStore,
	cfg *config.Config,
	cfgPath string,
	workspace string,
	dataDir string,
	msgBus *bus.MessageBus,
	execApprovalMgr *tools.ExecApprovalManager,
	agentStore store.AgentStore,
	isManaged bool,
	skillStore store.SkillStore,
	configSecretsStore store.ConfigSecretsStore,
	teamStore store.TeamStore,
) *methods.PairingMethods {
	router := server.Router()

	methods.NewSessionsMethods(sessStore).Register(router)
	methods.NewCronMethods(cronStore).Register(router)
	methods.NewSkillsMethods(skillStore).Register(router)
	methods.NewApprovalsMethods(execApprovalMgr).Register(router)

	pairingMethods := methods.NewPairingMethods(pairingStore)
	pairingMethods.Register(router)

	return pairingMethods
}
