package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "AndroidManifest.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const fullManifest = `<?xml version="1.0" encoding="utf-8"?>
<manifest xmlns:android="http://schemas.android.com/apk/res/android"
    package="com.example.app">
  <application android:debuggable="true">
    <activity android:name=".MainActivity">
      <intent-filter>
        <action android:name="android.intent.action.MAIN"/>
        <category android:name="android.intent.category.LAUNCHER"/>
      </intent-filter>
    </activity>
    <activity android:name=".SettingsActivity">
      <intent-filter>
        <action android:name="android.intent.action.VIEW"/>
      </intent-filter>
    </activity>
  </application>
</manifest>`

func TestPackage(t *testing.T) {
	t.Run("reads the package attribute", func(t *testing.T) {
		path := writeManifest(t, fullManifest)

		pkg, ok := Package(path)
		require.True(t, ok)
		assert.Equal(t, "com.example.app", pkg)
	})

	t.Run("absent without a package attribute", func(t *testing.T) {
		path := writeManifest(t, `<manifest><application/></manifest>`)

		_, ok := Package(path)
		assert.False(t, ok)
	})

	t.Run("absent for a missing file", func(t *testing.T) {
		_, ok := Package(filepath.Join(t.TempDir(), "nope.xml"))
		assert.False(t, ok)
	})
}

func TestDebuggable(t *testing.T) {
	t.Run("true only for the literal string true", func(t *testing.T) {
		path := writeManifest(t, fullManifest)
		assert.True(t, Debuggable(path))
	})

	t.Run("false when the attribute is absent", func(t *testing.T) {
		path := writeManifest(t, `<manifest package="a"><application/></manifest>`)
		assert.False(t, Debuggable(path))
	})

	t.Run("false for other values", func(t *testing.T) {
		path := writeManifest(t, `<manifest package="a">
  <application xmlns:android="http://schemas.android.com/apk/res/android" android:debuggable="True"/>
</manifest>`)
		assert.False(t, Debuggable(path))
	})

	t.Run("matched by local name regardless of namespace prefix", func(t *testing.T) {
		path := writeManifest(t, `<manifest package="a" xmlns:a="urn:x">
  <application a:debuggable="true"/>
</manifest>`)
		assert.True(t, Debuggable(path))
	})

	t.Run("false for a missing file", func(t *testing.T) {
		assert.False(t, Debuggable(filepath.Join(t.TempDir(), "nope.xml")))
	})
}

func TestLaunchable(t *testing.T) {
	t.Run("requires both MAIN action and LAUNCHER category", func(t *testing.T) {
		path := writeManifest(t, fullManifest)

		names := Launchable(path)
		assert.Equal(t, []string{"/.MainActivity"}, names)
	})

	t.Run("excludes an activity with only a MAIN action", func(t *testing.T) {
		path := writeManifest(t, `<manifest package="a" xmlns:android="urn:x">
  <application>
    <activity android:name=".OnlyMain">
      <intent-filter>
        <action android:name="android.intent.action.MAIN"/>
      </intent-filter>
    </activity>
  </application>
</manifest>`)
		assert.Empty(t, Launchable(path))
	})

	t.Run("excludes an activity with only a LAUNCHER category", func(t *testing.T) {
		path := writeManifest(t, `<manifest package="a" xmlns:android="urn:x">
  <application>
    <activity android:name=".OnlyLauncher">
      <intent-filter>
        <category android:name="android.intent.category.LAUNCHER"/>
      </intent-filter>
    </activity>
  </application>
</manifest>`)
		assert.Empty(t, Launchable(path))
	})

	t.Run("excludes MAIN and LAUNCHER split across sibling filters", func(t *testing.T) {
		path := writeManifest(t, `<manifest package="a" xmlns:android="urn:x">
  <application>
    <activity android:name=".SplitActivity">
      <intent-filter>
        <action android:name="android.intent.action.MAIN"/>
      </intent-filter>
      <intent-filter>
        <category android:name="android.intent.category.LAUNCHER"/>
      </intent-filter>
    </activity>
  </application>
</manifest>`)
		assert.Empty(t, Launchable(path))
	})

	t.Run("ignores action and category outside any intent-filter", func(t *testing.T) {
		path := writeManifest(t, `<manifest package="a" xmlns:android="urn:x">
  <application>
    <activity android:name=".BareActivity">
      <action android:name="android.intent.action.MAIN"/>
      <category android:name="android.intent.category.LAUNCHER"/>
    </activity>
  </application>
</manifest>`)
		assert.Empty(t, Launchable(path))
	})

	t.Run("launchable when one of several filters carries both", func(t *testing.T) {
		path := writeManifest(t, `<manifest package="a" xmlns:android="urn:x">
  <application>
    <activity android:name=".MultiFilter">
      <intent-filter>
        <action android:name="android.intent.action.VIEW"/>
      </intent-filter>
      <intent-filter>
        <action android:name="android.intent.action.MAIN"/>
        <category android:name="android.intent.category.LAUNCHER"/>
      </intent-filter>
    </activity>
  </application>
</manifest>`)
		assert.Equal(t, []string{"/.MultiFilter"}, Launchable(path))
	})

	t.Run("preserves an existing leading separator", func(t *testing.T) {
		path := writeManifest(t, `<manifest package="a" xmlns:android="urn:x">
  <application>
    <activity android:name="/absolute.Name">
      <intent-filter>
        <action android:name="android.intent.action.MAIN"/>
        <category android:name="android.intent.category.LAUNCHER"/>
      </intent-filter>
    </activity>
  </application>
</manifest>`)
		assert.Equal(t, []string{"/absolute.Name"}, Launchable(path))
	})

	t.Run("keeps document order for multiple launchables", func(t *testing.T) {
		path := writeManifest(t, `<manifest package="a" xmlns:android="urn:x">
  <application>
    <activity android:name=".First">
      <intent-filter>
        <action android:name="android.intent.action.MAIN"/>
        <category android:name="android.intent.category.LAUNCHER"/>
      </intent-filter>
    </activity>
    <activity android:name=".Second">
      <intent-filter>
        <action android:name="android.intent.action.MAIN"/>
        <category android:name="android.intent.category.LAUNCHER"/>
      </intent-filter>
    </activity>
  </application>
</manifest>`)
		assert.Equal(t, []string{"/.First", "/.Second"}, Launchable(path))
	})

	t.Run("empty for a missing file", func(t *testing.T) {
		assert.Empty(t, Launchable(filepath.Join(t.TempDir(), "nope.xml")))
	})
}
