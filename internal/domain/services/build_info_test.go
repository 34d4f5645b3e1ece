package services

import (
	"testing"
	"time"

	"github.com/ochairo/shipyard/internal/domain/entities"
)

func TestRenderBuildInfo(t *testing.T) {
	info := entities.BuildInfo{
		BuilderName:  "buildbox-01",
		BuildNumber:  42,
		Revision:     "abc1234",
		RevisionLong: "abc1234def5678abc1234def5678abc1234def56",
		Timestamp:    "Tue 03/05/2024  02:07:09.00",
		Version:      "1.2.3",
		VersionMajor: "1",
		VersionMinor: "2",
		VersionMicro: "3",
	}

	want := "// generated buildinfo from build server. \n" +
		"// do not check in. do not modify\n" +
		"\n" +
		"// name of the machine that compiled the build.\n" +
		"#define BUILDERNAME \"buildbox-01\"\n" +
		"\n" +
		"// unique build event number from builder.  \n" +
		"const unsigned int BUILDNUMBER=42;\n" +
		"\n" +
		"// Git short hash or similar\n" +
		"#define REVISION \"abc1234\"\n" +
		"\n" +
		"// Git long hash (or same as REVISION)\n" +
		"#define REVISION_LONG \"abc1234def5678abc1234def5678abc1234def56\"\n" +
		"\n" +
		"// Build timestamp string\n" +
		"#define BUILD_TIMESTAMP \"Tue 03/05/2024  02:07:09.00\"\n" +
		"\n" +
		"// version bits\n" +
		"#define VERSION_STRING \"1.2.3\"\n" +
		"#define VERSION_MAJOR 1\n" +
		"#define VERSION_MINOR 2\n" +
		"#define VERSION_MICRO 3\n" +
		"\n"

	if got := RenderBuildInfo(info); got != want {
		t.Errorf("RenderBuildInfo() mismatch\ngot:\n%q\nwant:\n%q", got, want)
	}
}

func TestFormatBuildTimestamp(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.Local)
	if got, want := FormatBuildTimestamp(ts), "Tue 03/05/2024  02:07:09.00"; got != want {
		t.Errorf("FormatBuildTimestamp() = %q, want %q", got, want)
	}
}

func TestSplitVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    [3]string
		wantErr bool
	}{
		{in: "1.2.3", want: [3]string{"1", "2", "3"}},
		{in: "10.0.7.4411", want: [3]string{"10", "0", "7"}},
		{in: "1.2", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			major, minor, micro, err := SplitVersion(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SplitVersion(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got := [3]string{major, minor, micro}; !tt.wantErr && got != tt.want {
				t.Errorf("SplitVersion(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
