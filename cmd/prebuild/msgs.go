package main

// Command descriptions and user facing messages
const (
	MsgRootShort       = "Apply config plugins to native Android and iOS projects"
	MsgRootLong        = "prebuild reads the app config of a project, runs its config plugins and\nwrites the resulting changes into the native android/ and ios/ directories."
	MsgApplyShort      = "Run config plugins and write the native project files"
	MsgModsShort       = "List the mods registered by the app config"
	MsgSlotsShort      = "Describe the native files mods can target"
	MsgConfigShort     = "Print the resolved app config"
	MsgProfileShort    = "Print the team and name of a provisioning profile"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	MsgFlagVerbose     = "Increase verbosity (-v, -vv, -vvv)"
	MsgFlagNoColor     = "Disable colored output"
	MsgFlagProjectRoot = "Project directory containing the app config"
	MsgFlagPlatform    = "Only run the given platform (android, ios)"
	MsgFlagDryRun      = "Print the changes instead of writing them"
	MsgFlagProfile     = "Provisioning profile used to fill ios.appleTeamId"
	MsgFlagFormat      = "Output format (toml, yaml, json)"
	MsgFlagOutput      = "Result format (auto, term, text, json)"

	MsgNoMods       = "No mods registered."
	MsgConfigSource = "# source: %s\n"
)

// MsgUsageTemplate is the cobra usage template
const MsgUsageTemplate = `{{boldUpper "usage"}}:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if .HasAvailableSubCommands}}

{{boldUpper "commands"}}:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{boldUpper "flags"}}:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

{{boldUpper "global flags"}}:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
