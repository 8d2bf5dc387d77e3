// Package key defines the canonical set of configuration identifiers.
package key

// DefinedFieldsCount is the number of registered configuration fields.
const DefinedFieldsCount = 21

// Resolution Host - these keys locate the remote service that searches shows and resolves episodes.
const (
	RemoteURL            = "remote.url"
	RemoteSearchPath     = "remote.search_path"
	RemoteResolvePath    = "remote.resolve_path"
	RemoteImagePath      = "remote.image_path"
	RemoteProxyPath      = "remote.proxy_path"
	RemoteTLSFingerprint = "remote.tls_fingerprint"
	RemoteRetries        = "remote.retries"
)

// Metadata Configuration - these keys govern the retrieval of show metadata.
const (
	MetadataFetchAnilist = "metadata.fetch_anilist"
)

// Progress Tracking - these keys configure the persistence of the last watched episode per show.
const (
	ProgressSaveOnLoad = "progress.save_on_load"
)

// Scrolling - these keys tune how the episode list follows the last watched episode.
const (
	ScrollDebounceMs = "scroll.debounce_ms"
)

// Search Interaction - these keys define the UI/UX parameters for search discovery.
const (
	SearchShowQuerySuggestions = "search.show_query_suggestions"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Terminal User Interface (TUI) - these keys define the interactive environment's styling.
const (
	TUIItemSpacing        = "tui.item_spacing"
	TUISearchPromptString = "tui.search_prompt"
	TUIShowURLs           = "tui.show_urls"
)

// Media Playback.
const (
	Player = "player.default"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these keys govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
