package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "HelloDays/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName          = "HelloDays"
	AppID            = "com.github.tartampluch.hellodays"
	KeyringService   = "com.github.tartampluch.hellodays"
	LogFileName      = "app.log"
	ConfigFileName   = "config.yaml"
	DataFileName     = "hellodays.json"
	BackupFilePrefix = "hellodays_backup_"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
	ExitCodeUsage   = 2
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for the data store, the config file and logs.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags, Commands & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion = "version"
	FlagDebug   = "debug"
	FlagConfig  = "config"

	FlagDescVersion = "Show application version and exit"
	FlagDescDebug   = "Enable debug logging to stdout"
	FlagDescConfig  = "Path to the YAML configuration file"

	CmdUpcoming    = "upcoming"
	CmdMonth       = "month"
	CmdToday       = "today"
	CmdAdd         = "add"
	CmdDelete      = "delete"
	CmdSuggest     = "suggest"
	CmdImport      = "import"
	CmdExport      = "export"
	CmdSettings    = "settings"
	CmdSetPassword = "set-password"
	CmdServe       = "serve"

	FlagFirst    = "first"
	FlagLast     = "last"
	FlagBirthday = "birthday"
	FlagNameDay  = "nameday"
	FlagPhone    = "phone"
	FlagNoRemind = "no-remind"
	FlagAutoName = "auto-namedays"
	FlagID       = "id"
	FlagJSON     = "json"
	FlagVCF      = "vcf"
	FlagURL      = "url"

	FlagDescFirst    = "First name (required)"
	FlagDescLast     = "Last name"
	FlagDescBirthday = "Birthday (YYYY-MM-DD)"
	FlagDescNameDay  = "Name day (YYYY-MM-DD), repeatable"
	FlagDescPhone    = "Phone number"
	FlagDescNoRemind = "Do not schedule reminders for this contact"
	FlagDescAutoName = "Add every catalog name day of the first name"
	FlagDescID       = "Update the contact with this id instead of adding one"
	FlagDescJSON     = "Restore contacts from a JSON backup (replaces all contacts)"
	FlagDescVCF      = "Append contacts from a local vCard file"
	FlagDescURL      = "Append contacts from a remote vCard export (defaults to carddav_url)"

	// StdinPath selects standard input/output instead of a file.
	StdinPath = "-"

	MsgVersionOutput = "%s version %s (%s/%s)\n"
	MsgUsage         = "usage: hellodays [-config path] [-debug] <upcoming|month|today|add|delete|suggest|import|export|settings|set-password|serve> [args]"
)

// -----------------------------------------------------------------------------
// CLI Output
// -----------------------------------------------------------------------------

const (
	OutGroupHeader    = "%s\n"
	OutReminderLine   = "  %-24s %s\n"
	OutNoOccurrence   = "-"
	OutNoContacts     = "No contacts yet."
	OutMonthHeader    = "%s %d\n"
	OutEventLine      = "%2d  %s\n"
	OutDigestSection  = "%s:\n"
	OutDigestLine     = "  %s %s (%s)\n"
	OutDigestToday    = "Today"
	OutDigestUpcoming = "Next 7 days"
	OutDigestNames    = "Name days today"
	OutNamesLine      = "  %s\n"
	OutNothing        = "  (none)"
	OutSaved          = "Saved contact #%d (%s), %d name day(s) added from the catalog\n"
	OutDeleted        = "Deleted contact #%d\n"
	OutImported       = "Imported %d contact(s)\n"
	OutExported       = "Exported %d contact(s) to %s\n"
	OutReminderTime   = "Reminder time: %s\n"
	OutPasswordSaved  = "Password stored for %s\n"
	OutGridEmpty      = "  "
	OutGridCell       = "%2d%s"
	OutGridSep        = " "

	// Day markers of the month grid.
	MarkBirthday = "*"
	MarkNameDay  = "+"
	MarkBoth     = "#"
	MarkToday    = "<"
	MarkNone     = " "
)

// -----------------------------------------------------------------------------
// Storage Keys
// -----------------------------------------------------------------------------

const (
	StoreKeyContacts      = "reminders"
	StoreKeySettings      = "app_settings"
	StoreKeyNotifications = "notifications"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultReminderTime   = "09:00:00"
	ReminderTimeLayout    = "15:04:05"
	DefaultTradition      = "Hungary"
	DefaultLanguage       = "en"
	DefaultListen         = "127.0.0.1:18081"
	DefaultCatalog        = CatalogEmbedded
	DefaultRescheduleCron = "5 0 * * *"
	DefaultDispatchCron   = "* * * * *"
	DefaultLeapYear       = 2000 // Leap year fallback for dates like --02-29
	DefaultWeekStart      = time.Sunday
	UpcomingWindowDays    = 7
	CatalogEmbedded       = "embedded"
	UIDSalt               = "hellodays-v1-" // Salt for deterministic feed UID generation

	RoleBirthday       = "birthday"
	RoleNameDayPrefix  = "nameday_"
	NotificationKeyFmt = "%d_%s"
)

// SupportedLanguages defines the list of available notification languages (ISO 639-1).
var SupportedLanguages = []string{"en", "hu"}

// -----------------------------------------------------------------------------
// Reminder Groups
// -----------------------------------------------------------------------------

const (
	GroupToday     = "Today"
	GroupThisWeek  = "This Week"
	GroupNextWeek  = "Next Week"
	GroupThisMonth = "This Month"
	GroupNextMonth = "Next Month"
	GroupLater     = "Later"
	GroupNone      = "No Upcoming Events"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyBirthdayTitle = "notif_birthday_title"
	TKeyBirthdayBody  = "notif_birthday_body"    // Requires Name
	TKeyNameDayTitle  = "notif_nameday_title"
	TKeyNameDayBody   = "notif_nameday_body"     // Requires Name
	TKeyEvtBirthday   = "event_summary_birthday" // Requires Name
	TKeyEvtNameDay    = "event_summary_nameday"  // Requires Name
	TKeyEvtGeneral    = "event_summary_general"  // Requires Name
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//HelloDays//Engine//EN"
	ICalCalName   = "HelloDays"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "hellodays"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropCategories  = "CATEGORIES"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	DefaultICalRefresh = 12 * time.Hour

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// Date layouts accepted for stored, imported and vCard dates.
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"
	DateFormatMonthArg  = "2006-01"
	DateFormatMonthDay  = "01-02"

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%d|%s|%s|%s"
	FormatUID       = "%s@%s"

	ExtVCF  = ".vcf"
	ExtJSON = ".json"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 64 * 1024 * 1024 // 64MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteCalendar       = "/calendar.ics"
	RouteUpcoming       = "/api/upcoming"
	RouteHealth         = "/health"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderAccept          = "Accept"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeTextPlain       = "text/plain; charset=utf-8"
	MimeVCard           = "text/vcard"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrConfigPathEmpty  = "configuration error: config path is empty"
	ErrConfigNil        = "configuration error: config is nil"
	ErrConfigRead       = "failed to read configuration file"
	ErrConfigParse      = "failed to parse configuration file"
	ErrConfigWrite      = "failed to write configuration file"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrListenRequired   = "listen address is required"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrUnexpectedStatus = "server returned unexpected status"
	ErrNetwork          = "network error during fetch"
	ErrVCardParse       = "failed to parse vCard stream"
	ErrNoVCard          = "no vCard found in input"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrDateParse        = "unable to parse date"
	ErrMonthDay         = "invalid month/day"
	ErrReminderTime     = "invalid reminder time (expected HH:MM:SS)"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrConfigDir        = "could not determine user config dir"
	ErrCreateDir        = "could not create app directory"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrCatalogLoad      = "failed to load name-day catalog"
	ErrCatalogDecode    = "failed to decode name-day catalog"
	ErrStoreRead        = "failed to read data store"
	ErrStoreWrite       = "failed to write data store"
	ErrStoreDecode      = "failed to decode stored value"
	ErrStoreEncode      = "failed to encode value for storage"
	ErrContactNotFound  = "contact not found"
	ErrContactName      = "contact first name is required"
	ErrInvalidBackup    = "invalid backup file format"
	ErrBackupDecode     = "failed to parse backup file"
	ErrBackupEncode     = "failed to encode backup"
	ErrSchedule         = "failed to schedule reminders"
	ErrCancel           = "failed to cancel reminders"
	ErrPending          = "failed to list pending notifications"
	ErrCronSpec         = "invalid cron schedule"
	ErrKeyring          = "failed to access keyring"
	ErrUnknownCommand   = "unknown command"
	ErrMissingArgument  = "missing required argument"
	ErrInvalidArgument  = "invalid argument"
	ErrImportSource     = "exactly one of -json, -vcf or -url is required"
	ErrNoCardDAVURL     = "no vCard URL given and carddav_url is not configured"
	ErrNoCardDAVUser    = "carddav_user is not configured"
	ErrReadPassword     = "failed to read password"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgInternalErr  = "Internal Server Error"
	HTTPMsgOK           = "ok"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackBirthdayTitle = "Birthday Reminder! 🎂"
	FallbackBirthdayBody  = "It's %s's birthday today! Don't forget to send your wishes."
	FallbackNameDayTitle  = "Name Day Reminder! 🎉"
	FallbackNameDayBody   = "It's %s's name day today!"
	FallbackEvtBirthday   = "🎂 %s"
	FallbackEvtNameDay    = "🎉 %s"
	FallbackEvtGeneral    = "%s"

	MsgAppStarting     = "Starting application"
	MsgAppStop         = "Application stopped gracefully"
	MsgCatalogLoaded   = "Name-day catalog loaded"
	MsgCatalogFailed   = "Name-day catalog unavailable, continuing without general name days"
	MsgSkippedMonth    = "Skipping unrecognized month in catalog"
	MsgSkippedDay      = "Skipping invalid day in catalog"
	MsgSkippedCard     = "Skipping malformed vCard"
	MsgSkippedDate     = "Skipping invalid date format"
	MsgContactSaved    = "Contact saved"
	MsgContactDeleted  = "Contact deleted"
	MsgScheduleFailed  = "Reminder scheduling failed, contact kept"
	MsgCancelFailed    = "Reminder cancellation failed"
	MsgScheduled       = "Reminders scheduled"
	MsgCancelled       = "Reminders cancelled"
	MsgRescheduled     = "All reminders rescheduled"
	MsgReminderDue     = "Reminder due"
	MsgDispatchFailed  = "Dispatching due reminders failed"
	MsgSettingsSaved   = "Settings saved"
	MsgSettingsLoaded  = "Settings loaded"
	MsgImported        = "Contacts imported"
	MsgExported        = "Contacts exported"
	MsgFeedBuilt       = "Calendar feed generated"
	MsgFeedFailed      = "Calendar feed generation failed"
	MsgWorkerStart     = "Background worker started"
	MsgWorkerStop      = "Worker stopping due to context cancellation"
	MsgServerListen    = "HTTP server listening"
	MsgServerStop      = "Shutting down HTTP server..."
	MsgCacheUpdated    = "Calendar cache updated"
	MsgUpcomingFailed  = "Building upcoming reminders failed"
	MsgLocaleSkip      = "Skipping non-locale file"
	MsgLocaleBadName   = "Skipping malformed locale filename"
	MsgLocaleLoaded    = "Locale loaded successfully"
	MsgTransMissing    = "Missing translation key"
	MsgPassFail        = "Password retrieval failed (might be empty)"
	MsgPasswordSaved   = "Password stored in keyring"
	MsgConfigCreated   = "Default configuration written"
	MsgDownloadStart   = "Initiating download"
	MsgDownloading     = "Downloading"
	MsgBadStatus       = "Server returned error status"
	MsgLogWarning      = "Warning: %s at %s: %v\n"
	MsgSubscriberPanic = "Settings subscriber panicked"

	MsgSuggestionApplied = "Catalog name days applied"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyListen    = "listen"
	LogKeySource    = "source"
	LogKeyMonth     = "month"
	LogKeyDay       = "day"
	LogKeyUser      = "user"
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeyValue     = "value"
	LogKeyContactID = "contact_id"
	LogKeyNotifID   = "notification_id"
	LogKeyTrigger   = "trigger_at"
	LogKeySpec      = "spec"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyDuration  = "duration_ms"
	LogKeyLength    = "content_length"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain     = "main"
	CompCatalog  = "catalog"
	CompEngine   = "engine"
	CompNotify   = "notify"
	CompStore    = "store"
	CompFetcher  = "fetcher"
	CompReminder = "reminder"
	CompWorker   = "worker"
	CompServer   = "server"
	CompI18n     = "i18n"
	CompConfig   = "config"
)
