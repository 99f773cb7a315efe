package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"k8s.io/apimachinery/pkg/util/wait"
)

// Environment variable names for the chaintrack CLI and server
const (
	EnvRPCURL            = "CHAINTRACK_RPC_URL"
	EnvChainID           = "CHAINTRACK_CHAIN_ID"
	EnvContractAddress   = "CHAINTRACK_CONTRACT_ADDRESS"
	EnvPrivateKey        = "CHAINTRACK_PRIVATE_KEY"
	EnvPort              = "CHAINTRACK_PORT"
	EnvBaseURL           = "CHAINTRACK_BASE_URL"
	EnvPersistenceType   = "CHAINTRACK_PERSISTENCE_TYPE"
	EnvDataPath          = "CHAINTRACK_DATA_PATH"
	EnvSQLitePath        = "CHAINTRACK_SQLITE_PATH"
	EnvRedisAddress      = "CHAINTRACK_REDIS_ADDRESS"
	EnvRedisPassword     = "CHAINTRACK_REDIS_PASSWORD"
	EnvRedisDB           = "CHAINTRACK_REDIS_DB"
	EnvRPCRateLimit      = "CHAINTRACK_RPC_RATE_LIMIT"
	EnvReconcileInterval = "CHAINTRACK_RECONCILE_INTERVAL"
	EnvOnChainProofCheck = "CHAINTRACK_ONCHAIN_PROOF_CHECK"
	EnvDryRun            = "CHAINTRACK_DRY_RUN"
	EnvDebug             = "CHAINTRACK_DEBUG"
	EnvServerURL         = "CHAINTRACK_SERVER_URL"
)

type ChainId uint

const (
	ChainId_PolygonMainnet ChainId = 137
	ChainId_PolygonAmoy    ChainId = 80002
	ChainId_Anvil          ChainId = 31337
)

type ChainName string

const (
	ChainName_PolygonMainnet ChainName = "polygon"
	ChainName_PolygonAmoy    ChainName = "amoy"
	ChainName_Anvil          ChainName = "devnet"
)

var ChainIdToName = map[ChainId]ChainName{
	ChainId_PolygonMainnet: ChainName_PolygonMainnet,
	ChainId_PolygonAmoy:    ChainName_PolygonAmoy,
	ChainId_Anvil:          ChainName_Anvil,
}
var ChainNameToId = map[ChainName]ChainId{
	ChainName_PolygonMainnet: ChainId_PolygonMainnet,
	ChainName_PolygonAmoy:    ChainId_PolygonAmoy,
	ChainName_Anvil:          ChainId_Anvil,
}

// Public RPC endpoints, used when no RPC URL is configured
var DefaultRPCURLs = map[ChainId]string{
	ChainId_PolygonMainnet: "https://polygon-rpc.com",
	ChainId_PolygonAmoy:    "https://rpc-amoy.polygon.technology/",
	ChainId_Anvil:          "http://127.0.0.1:8545",
}

var blockExplorers = map[ChainId]string{
	ChainId_PolygonMainnet: "https://polygonscan.com",
	ChainId_PolygonAmoy:    "https://amoy.polygonscan.com",
}

// Supply chain contract deployments
var SupplyChainContracts = map[ChainId]string{
	ChainId_PolygonAmoy: "0x444607c3F4788e8cB1f8B29132c6Ea6F4cac01bc",
}

// GetSupplyChainContractForChainId returns the known deployment on a chain
func GetSupplyChainContractForChainId(chainId ChainId) (string, error) {
	addr, ok := SupplyChainContracts[chainId]
	if !ok {
		return "", fmt.Errorf("no supply chain contract deployment known for chain ID %d", chainId)
	}
	return addr, nil
}

// ExplorerTxURL links to a transaction on the chain's block explorer, or
// returns "" for chains without one.
func ExplorerTxURL(chainId ChainId, txHash common.Hash) string {
	base, ok := blockExplorers[chainId]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s/tx/%s", base, txHash.Hex())
}

// ExplorerAddressURL links to an address on the chain's block explorer.
func ExplorerAddressURL(chainId ChainId, addr common.Address) string {
	base, ok := blockExplorers[chainId]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s/address/%s", base, addr.Hex())
}

// GetLedgerTimeoutForChain returns how long to wait for a ledger write to be
// mined before giving up on it
func GetLedgerTimeoutForChain(chainId ChainId) time.Duration {
	switch chainId {
	case ChainId_PolygonMainnet:
		// ~2s blocks, allow for congestion
		return 2 * time.Minute
	case ChainId_PolygonAmoy:
		return 90 * time.Second
	case ChainId_Anvil:
		return 15 * time.Second
	default:
		return 2 * time.Minute
	}
}

// LedgerRetryConfig is the backoff applied to ledger reads
type LedgerRetryConfig struct {
	InitialInterval time.Duration `json:"initial_interval"`
	Factor          float64       `json:"factor"`
	Jitter          float64       `json:"jitter"`
	Steps           int           `json:"steps"`
	MaxInterval     time.Duration `json:"max_interval"`
}

func DefaultLedgerRetryConfig() *LedgerRetryConfig {
	return &LedgerRetryConfig{
		InitialInterval: 250 * time.Millisecond,
		Factor:          2.0,
		Jitter:          0.1,
		Steps:           5,
		MaxInterval:     5 * time.Second,
	}
}

// Backoff converts the retry settings into a wait.Backoff
func (r *LedgerRetryConfig) Backoff() wait.Backoff {
	return wait.Backoff{
		Duration: r.InitialInterval,
		Factor:   r.Factor,
		Jitter:   r.Jitter,
		Steps:    r.Steps,
		Cap:      r.MaxInterval,
	}
}

func (r *LedgerRetryConfig) Validate() error {
	var allErrors field.ErrorList
	if r.InitialInterval <= 0 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("initialInterval"), r.InitialInterval.String(), "must be positive"))
	}
	if r.Factor < 1 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("factor"), r.Factor, "must be at least 1"))
	}
	if r.Steps < 1 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("steps"), r.Steps, "must be at least 1"))
	}
	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

// ChainTrackConfig represents the complete configuration for the chaintrack
// service
type ChainTrackConfig struct {
	// Chain configuration
	ChainID         ChainId   `json:"chain_id"`
	ChainName       ChainName `json:"chain_name"`
	RpcUrl          string    `json:"rpc_url"`
	ContractAddress string    `json:"contract_address"`

	// Signing key for ledger writes. Empty means read-only.
	PrivateKey string `json:"-"`

	// HTTP API
	Port    int    `json:"port"`
	BaseURL string `json:"base_url"` // prefix of the verify links in product QR codes

	RPCRateLimit      float64       `json:"rpc_rate_limit"` // requests per second, 0 disables
	ReconcileInterval time.Duration `json:"reconcile_interval"`
	OnChainProofCheck bool          `json:"onchain_proof_check"`
	DryRun            bool          `json:"dry_run"`

	Persistence *PersistenceConfig `json:"persistence"`
	LedgerRetry *LedgerRetryConfig `json:"ledger_retry"`

	Debug bool `json:"debug"`
}

// Validate validates the configuration and fills in chain derived defaults
func (c *ChainTrackConfig) Validate() error {
	var allErrors field.ErrorList

	chainName, exists := ChainIdToName[c.ChainID]
	if !exists {
		allErrors = append(allErrors, field.NotSupported(field.NewPath("chainId"), c.ChainID, supportedChainIDStrings()))
	} else {
		c.ChainName = chainName
	}

	if c.RpcUrl == "" && exists {
		c.RpcUrl = DefaultRPCURLs[c.ChainID]
	}
	if !c.DryRun {
		if _, err := url.ParseRequestURI(c.RpcUrl); err != nil {
			allErrors = append(allErrors, field.Invalid(field.NewPath("rpcUrl"), c.RpcUrl, "must be a valid URL"))
		}
	}

	if c.ContractAddress == "" && exists {
		if addr, err := GetSupplyChainContractForChainId(c.ChainID); err == nil {
			c.ContractAddress = addr
		}
	}
	if c.ContractAddress == "" {
		if !c.DryRun {
			allErrors = append(allErrors, field.Required(field.NewPath("contractAddress"), "contract address is required for this chain"))
		}
	} else if !common.IsHexAddress(c.ContractAddress) {
		allErrors = append(allErrors, field.Invalid(field.NewPath("contractAddress"), c.ContractAddress, "invalid address format"))
	}

	if c.PrivateKey != "" {
		key := strings.TrimPrefix(c.PrivateKey, "0x")
		if len(key) != 64 {
			allErrors = append(allErrors, field.Invalid(field.NewPath("privateKey"), "<redacted>",
				fmt.Sprintf("must be 32 bytes (64 hex chars), got %d chars", len(key))))
		}
	}

	if c.Port < 1 || c.Port > 65535 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("port"), c.Port, "must be between 1-65535"))
	}
	if c.BaseURL != "" {
		if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
			allErrors = append(allErrors, field.Invalid(field.NewPath("baseUrl"), c.BaseURL, "must be a valid URL"))
		}
	}
	if c.RPCRateLimit < 0 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("rpcRateLimit"), c.RPCRateLimit, "must not be negative"))
	}
	if c.ReconcileInterval < 0 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("reconcileInterval"), c.ReconcileInterval.String(), "must not be negative"))
	}

	if c.Persistence == nil {
		c.Persistence = NewDefaultPersistenceConfig()
	}
	if err := c.Persistence.Validate(); err != nil {
		allErrors = append(allErrors, field.Invalid(field.NewPath("persistence"), c.Persistence.Type, err.Error()))
	}

	if c.LedgerRetry == nil {
		c.LedgerRetry = DefaultLedgerRetryConfig()
	}
	if err := c.LedgerRetry.Validate(); err != nil {
		allErrors = append(allErrors, field.Invalid(field.NewPath("ledgerRetry"), "", err.Error()))
	}

	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

// CanWrite reports whether a signing key is configured
func (c *ChainTrackConfig) CanWrite() bool {
	return c.PrivateKey != ""
}

// GetSupportedChainIDs returns all supported chain IDs
func GetSupportedChainIDs() []ChainId {
	return []ChainId{
		ChainId_PolygonMainnet,
		ChainId_PolygonAmoy,
		ChainId_Anvil,
	}
}

func supportedChainIDStrings() []string {
	ids := GetSupportedChainIDs()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = fmt.Sprintf("%d", id)
	}
	return out
}

// GetSupportedChainIDsString returns supported chain IDs as strings for CLI help
func GetSupportedChainIDsString() string {
	return fmt.Sprintf("%d (polygon), %d (amoy), %d (anvil)",
		ChainId_PolygonMainnet, ChainId_PolygonAmoy, ChainId_Anvil)
}
