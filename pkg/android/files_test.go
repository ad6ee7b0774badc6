package android_test

import (
	"testing"

	"github.com/eppisapiafsl/expo-cli/pkg/android"
	"github.com/stretchr/testify/assert"
)

const appGradle = `android {
    defaultConfig {
        applicationId 'com.example.demo'
        minSdkVersion rootProject.ext.minSdkVersion
        versionCode 1
        versionName "1.0.0"
    }
}
`

const appGradleKts = `android {
    defaultConfig {
        applicationId = "com.example.demo"
        versionCode = 3
        versionName = "1.0"
    }
}
`

func TestLanguageFromPath(t *testing.T) {
	assert.Equal(t, android.LanguageJava, android.LanguageFromPath("a/MainActivity.java"))
	assert.Equal(t, android.LanguageKotlin, android.LanguageFromPath("a/MainActivity.kt"))
	assert.Equal(t, android.LanguageKTS, android.LanguageFromPath("build.gradle.kts"))
	assert.Equal(t, android.LanguageGroovy, android.LanguageFromPath("build.gradle"))
}

func TestGradleEdits(t *testing.T) {
	t.Run("groovy", func(t *testing.T) {
		f := android.NewProjectFile("android/app/build.gradle", []byte(appGradle))
		assert.True(t, f.SetApplicationID("com.example.next"))
		assert.True(t, f.SetVersionCode(42))
		assert.True(t, f.SetVersionName("2.1.0"))

		assert.Contains(t, f.Contents, `applicationId 'com.example.next'`)
		assert.Contains(t, f.Contents, `versionCode 42`)
		assert.Contains(t, f.Contents, `versionName "2.1.0"`)
		assert.Contains(t, f.Contents, `minSdkVersion rootProject.ext.minSdkVersion`)
	})

	t.Run("kotlin script", func(t *testing.T) {
		f := android.NewProjectFile("android/app/build.gradle.kts", []byte(appGradleKts))
		assert.True(t, f.SetApplicationID("com.example.next"))
		assert.True(t, f.SetVersionCode(7))

		assert.Contains(t, f.Contents, `applicationId = "com.example.next"`)
		assert.Contains(t, f.Contents, `versionCode = 7`)
	})

	t.Run("missing declaration", func(t *testing.T) {
		f := android.NewProjectFile("android/build.gradle", []byte("buildscript {}\n"))
		assert.False(t, f.SetApplicationID("x"))
		assert.False(t, f.SetVersionCode(1))
		assert.Equal(t, "buildscript {}\n", f.Contents)
	})

	t.Run("value with dollar sign", func(t *testing.T) {
		f := android.NewProjectFile("android/app/build.gradle", []byte(appGradle))
		assert.True(t, f.SetVersionName("$1.0"))
		assert.Contains(t, f.Contents, `versionName "$1.0"`)
	})
}

func TestAppendLine(t *testing.T) {
	f := android.ProjectFile{Contents: "apply plugin: 'a'"}
	assert.True(t, f.AppendLine("apply plugin: 'b'"))
	assert.False(t, f.AppendLine("  apply plugin: 'b'  "))
	assert.Equal(t, "apply plugin: 'a'\napply plugin: 'b'\n", f.Contents)

	empty := android.ProjectFile{}
	assert.True(t, empty.AppendLine("x"))
	assert.Equal(t, "x\n", empty.Contents)
}

func TestDiscardSavedState(t *testing.T) {
	f := android.NewProjectFile("MainActivity.java", []byte(`@Override
protected void onCreate(Bundle savedInstanceState) {
    super.onCreate(savedInstanceState);
}`))
	assert.True(t, f.DiscardSavedState())
	assert.Contains(t, f.Contents, "super.onCreate(null);")
	assert.False(t, f.DiscardSavedState())
}
