package prebuild

import (
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/eppisapiafsl/expo-cli/pkg/errors"
	"github.com/eppisapiafsl/expo-cli/pkg/mods"
	"github.com/eppisapiafsl/expo-cli/pkg/slots"
	"github.com/spf13/afero"
)

// locator resolves slot paths relative to the project root
type locator struct {
	fs   afero.Fs
	fsys afero.IOFS
}

func newLocator(fs afero.Fs, root string) *locator {
	rooted := afero.NewBasePathFs(fs, root)
	return &locator{fs: rooted, fsys: afero.NewIOFS(rooted)}
}

func (l *locator) exists(p string) bool {
	ok, err := afero.Exists(l.fs, p)
	return err == nil && ok
}

func (l *locator) isDir(p string) bool {
	ok, err := afero.DirExists(l.fs, p)
	return err == nil && ok
}

// glob returns the sorted matches of a doublestar pattern
func (l *locator) glob(pattern string) ([]string, error) {
	matches, err := doublestar.Glob(l.fsys, pattern)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot search for %s", pattern)
	}
	sort.Strings(matches)
	return matches, nil
}

// first returns the first candidate that exists, or the first candidate
// when none does
func (l *locator) first(candidates ...string) (string, bool) {
	for _, c := range candidates {
		if l.exists(c) {
			return c, true
		}
	}
	return candidates[0], false
}

// iosProjectName derives the project name from ios/<name>.xcodeproj
func (l *locator) iosProjectName() (string, error) {
	matches, err := l.glob("ios/*.xcodeproj")
	if err != nil {
		return "", err
	}
	for _, m := range matches {
		name := strings.TrimSuffix(path.Base(m), ".xcodeproj")
		if name != "Pods" && l.exists(path.Join(m, "project.pbxproj")) {
			return name, nil
		}
	}
	return "", errors.New(errors.ErrFileNotFound, "no Xcode project found under ios/").
		WithDetail("pattern", "ios/*.xcodeproj")
}

// resolve returns the path of a slot and whether the file exists
func (l *locator) resolve(name mods.SlotName, projectName string) (string, bool, error) {
	switch name {
	case slots.AndroidManifest.Name():
		return l.plain("android/app/src/main/AndroidManifest.xml")
	case slots.AndroidStrings.Name():
		return l.plain("android/app/src/main/res/values/strings.xml")
	case slots.AndroidMainActivity.Name():
		matches, err := l.glob("android/app/src/main/java/**/MainActivity.{java,kt}")
		if err != nil {
			return "", false, err
		}
		if len(matches) == 0 {
			return "android/app/src/main/java/MainActivity.java", false, nil
		}
		return matches[0], true, nil
	case slots.AndroidAppBuildGradle.Name():
		p, ok := l.first("android/app/build.gradle", "android/app/build.gradle.kts")
		return p, ok, nil
	case slots.AndroidProjectBuildGradle.Name():
		p, ok := l.first("android/build.gradle", "android/build.gradle.kts")
		return p, ok, nil
	case slots.AndroidExpoAppBuildGradle.Name():
		return l.plain("android/.expo/app-build.gradle")
	case slots.AndroidExpoProjectBuildGradle.Name():
		return l.plain("android/.expo/project-build.gradle")
	case slots.IOSInfoPlist.Name():
		return l.plain(path.Join("ios", projectName, "Info.plist"))
	case slots.IOSEntitlements.Name():
		return l.plain(path.Join("ios", projectName, projectName+".entitlements"))
	case slots.IOSExpoPlist.Name():
		return l.plain(path.Join("ios", projectName, "Supporting", "Expo.plist"))
	case slots.IOSXcodeproj.Name():
		return l.plain(path.Join("ios", projectName+".xcodeproj", "project.pbxproj"))
	}
	return "", false, errors.Newf(errors.ErrNotFound, "no location known for slot %q", name)
}

func (l *locator) plain(p string) (string, bool, error) {
	return p, l.exists(p), nil
}

func (l *locator) read(p string) ([]byte, error) {
	if !l.exists(p) {
		return nil, errors.Newf(errors.ErrFileNotFound, "%s does not exist", p).WithDetail("path", p)
	}
	data, err := afero.ReadFile(l.fs, p)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", p).WithDetail("path", p)
	}
	return data, nil
}

func (l *locator) write(p string, data []byte) error {
	if err := l.fs.MkdirAll(path.Dir(p), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot create directory for %s", p).WithDetail("path", p)
	}
	if err := afero.WriteFile(l.fs, p, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", p).WithDetail("path", p)
	}
	return nil
}
