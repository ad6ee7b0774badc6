package prebuild_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/eppisapiafsl/expo-cli/pkg/errors"
	"github.com/eppisapiafsl/expo-cli/pkg/mods"
	"github.com/eppisapiafsl/expo-cli/pkg/plist"
	"github.com/eppisapiafsl/expo-cli/pkg/plugins"
	"github.com/eppisapiafsl/expo-cli/pkg/prebuild"
	"github.com/eppisapiafsl/expo-cli/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const root = "/app"

const manifestXML = `<?xml version="1.0" encoding="utf-8"?>
<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.example.old">
    <application android:name=".MainApplication">
        <activity android:name=".MainActivity"/>
    </application>
</manifest>
`

const appGradle = `android {
    defaultConfig {
        applicationId "com.example.old"
        versionCode 1
        versionName "1.0"
    }
}
`

const mainActivity = `package com.example.turtle;

public class MainActivity extends ReactActivity {
  @Override
  protected void onCreate(Bundle savedInstanceState) {
    super.onCreate(savedInstanceState);
  }
}
`

const projectFile = `// !$*UTF8*$!
{
	objects = {
		T1 = { isa = PBXNativeTarget; name = turtle; buildConfigurationList = L1; };
		L1 = { isa = XCConfigurationList; buildConfigurations = ( C1 ); };
		C1 = { isa = XCBuildConfiguration; name = Release; buildSettings = { PRODUCT_NAME = turtle; }; };
		P1 = { isa = PBXProject; targets = ( T1 ); };
	};
	rootObject = P1;
}
`

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	full := filepath.Join(root, path)
	require.NoError(t, fs.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, afero.WriteFile(fs, full, []byte(content), 0644))
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, filepath.Join(root, path))
	require.NoError(t, err)
	return string(data)
}

func newProject(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "android/app/src/main/AndroidManifest.xml", manifestXML)
	writeFile(t, fs, "android/app/build.gradle", appGradle)
	writeFile(t, fs, "android/build.gradle", "buildscript {}\n")
	writeFile(t, fs, "android/app/src/main/java/com/example/turtle/MainActivity.java", mainActivity)
	writeFile(t, fs, "ios/turtle.xcodeproj/project.pbxproj", projectFile)

	info, err := plist.Encode(plist.Dict{"CFBundleDisplayName": "old", "CFBundleVersion": "1"})
	require.NoError(t, err)
	writeFile(t, fs, "ios/turtle/Info.plist", string(info))
	return fs
}

func appConfig() types.AppConfig {
	return types.AppConfig{
		Name:    "Turtle",
		Version: "2.0.0",
		Android: types.AndroidConfig{Package: "com.example.turtle", VersionCode: 5, Permissions: []string{"CAMERA"}},
		IOS:     types.IOSConfig{BundleIdentifier: "com.example.turtle", BuildNumber: "5", AppleTeamID: "QL76XYH73P"},
	}
}

func exported(t *testing.T, cfg types.AppConfig) mods.ExportedConfig {
	t.Helper()
	exp := mods.ExportedConfig{Config: cfg}
	require.NoError(t, plugins.Apply(&exp))
	return exp
}

func TestRunWritesChangedFiles(t *testing.T) {
	fs := newProject(t)
	runner := prebuild.NewRunner(fs)

	res, err := runner.Run(context.Background(), exported(t, appConfig()), prebuild.Options{ProjectRoot: root})
	require.NoError(t, err)
	assert.Len(t, res.RunID, 26)
	require.Len(t, res.Platforms, 2)

	androidRes := res.Platform(types.PlatformAndroid)
	require.NotNil(t, androidRes)
	assert.Equal(t, prebuild.ExecutionStatusSuccess, androidRes.Status)

	manifest, ok := androidRes.Slot("manifest")
	require.True(t, ok)
	assert.Equal(t, prebuild.StatusWritten, manifest.Status)
	assert.Equal(t, "android/app/src/main/AndroidManifest.xml", manifest.Path)
	assert.Equal(t, 2, manifest.Links)

	strings, _ := androidRes.Slot("strings")
	assert.Equal(t, prebuild.StatusWritten, strings.Status)
	activity, _ := androidRes.Slot("mainActivity")
	assert.Equal(t, prebuild.StatusSkipped, activity.Status)
	assert.Equal(t, "no mods", activity.Reason)

	assert.Contains(t, readFile(t, fs, "android/app/src/main/AndroidManifest.xml"), `package="com.example.turtle"`)
	assert.Contains(t, readFile(t, fs, "android/app/src/main/AndroidManifest.xml"), "android.permission.CAMERA")
	assert.Contains(t, readFile(t, fs, "android/app/src/main/res/values/strings.xml"), ">Turtle<")
	assert.Contains(t, readFile(t, fs, "android/app/build.gradle"), `applicationId "com.example.turtle"`)
	assert.Equal(t, mainActivity, readFile(t, fs, "android/app/src/main/java/com/example/turtle/MainActivity.java"))

	iosRes := res.Platform(types.PlatformIOS)
	require.NotNil(t, iosRes)
	assert.Equal(t, "turtle", iosRes.ProjectName)

	info, err := plist.Decode([]byte(readFile(t, fs, "ios/turtle/Info.plist")))
	require.NoError(t, err)
	assert.Equal(t, "Turtle", info["CFBundleDisplayName"])
	assert.Equal(t, "5", info["CFBundleVersion"])

	project := readFile(t, fs, "ios/turtle.xcodeproj/project.pbxproj")
	assert.Contains(t, project, "QL76XYH73P")
	assert.Contains(t, project, "com.example.turtle")
}

func TestRunIsIdempotent(t *testing.T) {
	fs := newProject(t)
	runner := prebuild.NewRunner(fs)
	exp := exported(t, appConfig())

	_, err := runner.Run(context.Background(), exp, prebuild.Options{ProjectRoot: root})
	require.NoError(t, err)

	res, err := runner.Run(context.Background(), exp, prebuild.Options{ProjectRoot: root})
	require.NoError(t, err)
	for _, p := range res.Platforms {
		assert.Equal(t, 0, p.Written, "platform %s", p.Platform)
		for _, s := range p.Slots {
			assert.Contains(t, []prebuild.SlotStatus{prebuild.StatusUnchanged, prebuild.StatusSkipped}, s.Status, "%s/%s", s.Platform, s.Slot)
		}
	}
}

func TestRunDryRun(t *testing.T) {
	fs := newProject(t)
	runner := prebuild.NewRunner(fs)

	res, err := runner.Run(context.Background(), exported(t, appConfig()), prebuild.Options{ProjectRoot: root, DryRun: true})
	require.NoError(t, err)
	assert.True(t, res.DryRun)

	assert.Equal(t, appGradle, readFile(t, fs, "android/app/build.gradle"))
	exists, err := afero.Exists(fs, filepath.Join(root, "android/app/src/main/res/values/strings.xml"))
	require.NoError(t, err)
	assert.False(t, exists)

	changes := res.Changes()
	require.NotEmpty(t, changes)
	var gradle *prebuild.Change
	for i := range changes {
		if changes[i].Path == "android/app/build.gradle" {
			gradle = &changes[i]
		}
	}
	require.NotNil(t, gradle)
	assert.Contains(t, gradle.Patch, `-        applicationId "com.example.old"`)
	assert.Contains(t, gradle.Patch, `+        applicationId "com.example.turtle"`)
	assert.Equal(t, appGradle, string(gradle.Before))

	gradleRes, _ := res.Platform(types.PlatformAndroid).Slot("appBuildGradle")
	assert.Equal(t, prebuild.StatusChanged, gradleRes.Status)
}

func TestRunOnlyRequestedPlatform(t *testing.T) {
	fs := newProject(t)
	runner := prebuild.NewRunner(fs)

	res, err := runner.Run(context.Background(), exported(t, appConfig()), prebuild.Options{
		ProjectRoot: root,
		Platforms:   []types.Platform{types.PlatformIOS},
	})
	require.NoError(t, err)
	require.Len(t, res.Platforms, 1)
	assert.Nil(t, res.Platform(types.PlatformAndroid))
	assert.Equal(t, appGradle, readFile(t, fs, "android/app/build.gradle"))
}

func TestRunMissingPlatformDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "ios/turtle.xcodeproj/project.pbxproj", projectFile)
	writeFile(t, fs, "ios/turtle/Info.plist", "<plist version=\"1.0\"><dict/></plist>")
	runner := prebuild.NewRunner(fs)
	exp := exported(t, appConfig())

	res, err := runner.Run(context.Background(), exp, prebuild.Options{ProjectRoot: root})
	require.NoError(t, err)
	assert.Equal(t, prebuild.ExecutionStatusSkipped, res.Platform(types.PlatformAndroid).Status)
	assert.Equal(t, prebuild.ExecutionStatusSuccess, res.Platform(types.PlatformIOS).Status)

	_, err = runner.Run(context.Background(), exp, prebuild.Options{ProjectRoot: root, Platforms: []types.Platform{types.PlatformAndroid}})
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileNotFound))
}

func TestRunMissingRequiredFile(t *testing.T) {
	fs := newProject(t)
	require.NoError(t, fs.Remove(filepath.Join(root, "android/app/build.gradle")))
	runner := prebuild.NewRunner(fs)

	res, err := runner.Run(context.Background(), exported(t, appConfig()), prebuild.Options{ProjectRoot: root})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileNotFound))
	assert.Equal(t, "android/app/build.gradle", errors.GetErrorDetails(err)["path"])

	assert.Equal(t, prebuild.ExecutionStatusError, res.Platform(types.PlatformAndroid).Status)
	assert.Equal(t, prebuild.ExecutionStatusSuccess, res.Platform(types.PlatformIOS).Status)
	assert.Contains(t, readFile(t, fs, "ios/turtle.xcodeproj/project.pbxproj"), "QL76XYH73P")
}

func TestRunMalformedInput(t *testing.T) {
	fs := newProject(t)
	writeFile(t, fs, "android/app/src/main/AndroidManifest.xml", "<manifest><application>")
	runner := prebuild.NewRunner(fs)

	res, err := runner.Run(context.Background(), exported(t, appConfig()), prebuild.Options{ProjectRoot: root, Platforms: []types.Platform{types.PlatformAndroid}})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMalformedInput))

	manifest, _ := res.Platform(types.PlatformAndroid).Slot("manifest")
	assert.Equal(t, prebuild.StatusError, manifest.Status)
	assert.Equal(t, "<manifest><application>", readFile(t, fs, "android/app/src/main/AndroidManifest.xml"))
}

func TestRunChainFailure(t *testing.T) {
	fs := newProject(t)
	cfg := appConfig()
	cfg.Plugins = []types.PluginEntry{{Name: "jq", Props: map[string]interface{}{"query": ".CFBundleVersion"}}}
	runner := prebuild.NewRunner(fs)

	res, err := runner.Run(context.Background(), exported(t, cfg), prebuild.Options{ProjectRoot: root, Platforms: []types.Platform{types.PlatformIOS}})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrChainExecution))

	details := errors.GetErrorDetails(err)
	assert.Equal(t, "ios", details["platform"])
	assert.Equal(t, "infoPlist", details["slot"])
	assert.Equal(t, "jq", details["link"])

	info, _ := res.Platform(types.PlatformIOS).Slot("infoPlist")
	assert.Equal(t, prebuild.StatusError, info.Status)
	assert.Contains(t, readFile(t, fs, "ios/turtle/Info.plist"), "<string>old</string>")
}

func TestRunWithoutXcodeProject(t *testing.T) {
	fs := newProject(t)
	require.NoError(t, fs.RemoveAll(filepath.Join(root, "ios/turtle.xcodeproj")))
	runner := prebuild.NewRunner(fs)

	res, err := runner.Run(context.Background(), exported(t, appConfig()), prebuild.Options{ProjectRoot: root, Platforms: []types.Platform{types.PlatformIOS}})
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileNotFound))
	assert.Equal(t, prebuild.ExecutionStatusError, res.Platform(types.PlatformIOS).Status)
}

func TestRunWithoutMods(t *testing.T) {
	fs := newProject(t)
	runner := prebuild.NewRunner(fs)

	res, err := runner.Run(context.Background(), mods.ExportedConfig{Config: appConfig()}, prebuild.Options{ProjectRoot: root})
	require.NoError(t, err)
	for _, p := range res.Platforms {
		assert.Equal(t, prebuild.ExecutionStatusSkipped, p.Status)
	}
}

func TestRunSkipsBlankOptionalFile(t *testing.T) {
	fs := newProject(t)
	cfg := appConfig()
	cfg.Plugins = []types.PluginEntry{{Name: "lock", Props: map[string]interface{}{"slot": "expoPlist"}}}
	runner := prebuild.NewRunner(fs)

	res, err := runner.Run(context.Background(), exported(t, cfg), prebuild.Options{ProjectRoot: root, Platforms: []types.Platform{types.PlatformIOS}})
	require.NoError(t, err)

	expo, ok := res.Platform(types.PlatformIOS).Slot("expoPlist")
	require.True(t, ok)
	assert.Equal(t, prebuild.StatusSkipped, expo.Status)
	assert.Equal(t, "nothing to write", expo.Reason)

	exists, err := afero.Exists(fs, filepath.Join(root, "ios/turtle/Supporting/Expo.plist"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRunCreatesOptionalFileWithContent(t *testing.T) {
	fs := newProject(t)
	cfg := appConfig()
	cfg.Updates = types.UpdatesConfig{Enabled: true, URL: "https://u.example.com/manifest"}
	runner := prebuild.NewRunner(fs)

	res, err := runner.Run(context.Background(), exported(t, cfg), prebuild.Options{ProjectRoot: root, Platforms: []types.Platform{types.PlatformIOS}})
	require.NoError(t, err)

	expo, _ := res.Platform(types.PlatformIOS).Slot("expoPlist")
	assert.Equal(t, prebuild.StatusWritten, expo.Status)
	assert.Contains(t, readFile(t, fs, "ios/turtle/Supporting/Expo.plist"), "https://u.example.com/manifest")
}

func TestRunFailingPlatformWritesNothing(t *testing.T) {
	fs := newProject(t)
	writeFile(t, fs, "android/app/src/main/AndroidManifest.xml", "<manifest><application>")
	runner := prebuild.NewRunner(fs)

	res, err := runner.Run(context.Background(), exported(t, appConfig()), prebuild.Options{ProjectRoot: root, Platforms: []types.Platform{types.PlatformAndroid}})
	require.Error(t, err)

	gradle, _ := res.Platform(types.PlatformAndroid).Slot("appBuildGradle")
	assert.Equal(t, prebuild.StatusSkipped, gradle.Status)
	assert.Equal(t, "cancelled", gradle.Reason)
	assert.Equal(t, appGradle, readFile(t, fs, "android/app/build.gradle"))

	exists, err := afero.Exists(fs, filepath.Join(root, "android/app/src/main/res/values/strings.xml"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRunWriteFailure(t *testing.T) {
	fs := afero.NewReadOnlyFs(newProject(t))
	runner := prebuild.NewRunner(fs)

	res, err := runner.Run(context.Background(), exported(t, appConfig()), prebuild.Options{ProjectRoot: root, Platforms: []types.Platform{types.PlatformAndroid}})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileWrite))

	androidRes := res.Platform(types.PlatformAndroid)
	assert.Equal(t, prebuild.ExecutionStatusError, androidRes.Status)
	assert.Equal(t, 0, androidRes.Written)
	assert.Positive(t, androidRes.Failed)
}
