package android

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Language is the source language of a project file
type Language string

const (
	LanguageJava   Language = "java"
	LanguageKotlin Language = "kt"
	LanguageGroovy Language = "groovy"
	LanguageKTS    Language = "kts"
)

// ProjectFile is a source or build script handled as raw text
type ProjectFile struct {
	Path     string
	Language Language
	Contents string
}

// LanguageFromPath derives the language from the file extension
func LanguageFromPath(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".java":
		return LanguageJava
	case ".kt":
		return LanguageKotlin
	case ".kts":
		return LanguageKTS
	default:
		return LanguageGroovy
	}
}

// NewProjectFile wraps contents read from path
func NewProjectFile(path string, contents []byte) ProjectFile {
	return ProjectFile{Path: path, Language: LanguageFromPath(path), Contents: string(contents)}
}

var (
	applicationIDPattern = regexp.MustCompile(`(applicationId\s*=?\s*)(['"])[^'"\n]*(['"])`)
	versionNamePattern   = regexp.MustCompile(`(versionName\s*=?\s*)(['"])[^'"\n]*(['"])`)
	versionCodePattern   = regexp.MustCompile(`(versionCode\s*=?\s*)\d+`)
	onCreatePattern      = regexp.MustCompile(`super\.onCreate\(\s*savedInstanceState\s*\)`)
)

// SetApplicationID rewrites the applicationId of an app build script. It
// reports whether a declaration was found.
func (f *ProjectFile) SetApplicationID(id string) bool {
	return f.replaceQuoted(applicationIDPattern, id)
}

// SetVersionName rewrites the versionName of an app build script
func (f *ProjectFile) SetVersionName(name string) bool {
	return f.replaceQuoted(versionNamePattern, name)
}

// SetVersionCode rewrites the versionCode of an app build script
func (f *ProjectFile) SetVersionCode(code int) bool {
	if !versionCodePattern.MatchString(f.Contents) {
		return false
	}
	f.Contents = versionCodePattern.ReplaceAllStringFunc(f.Contents, func(m string) string {
		sub := versionCodePattern.FindStringSubmatch(m)
		return sub[1] + strconv.Itoa(code)
	})
	return true
}

func (f *ProjectFile) replaceQuoted(re *regexp.Regexp, value string) bool {
	if !re.MatchString(f.Contents) {
		return false
	}
	f.Contents = re.ReplaceAllStringFunc(f.Contents, func(m string) string {
		sub := re.FindStringSubmatch(m)
		return sub[1] + sub[2] + value + sub[3]
	})
	return true
}

// AppendLine appends line unless the file already contains it. It reports
// whether the file changed.
func (f *ProjectFile) AppendLine(line string) bool {
	line = strings.TrimSpace(line)
	for _, existing := range strings.Split(f.Contents, "\n") {
		if strings.TrimSpace(existing) == line {
			return false
		}
	}
	if f.Contents != "" && !strings.HasSuffix(f.Contents, "\n") {
		f.Contents += "\n"
	}
	f.Contents += line + "\n"
	return true
}

// DiscardSavedState makes the activity ignore restored instance state by
// calling super.onCreate(null). It reports whether the file changed.
func (f *ProjectFile) DiscardSavedState() bool {
	if !onCreatePattern.MatchString(f.Contents) {
		return false
	}
	f.Contents = onCreatePattern.ReplaceAllString(f.Contents, "super.onCreate(null)")
	return true
}
