package asset

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Category
	}{
		{"mp3", "song.mp3", CategoryAudio},
		{"wav", "take.wav", CategoryAudio},
		{"aac upper", "TRACK.AAC", CategoryAudio},
		{"mp4", "clip.mp4", CategoryVideo},
		{"mkv", "movie.mkv", CategoryVideo},
		{"webm", "loop.webm", CategoryVideo},
		{"png", "logo.png", CategoryImage},
		{"jpeg", "photo.JPEG", CategoryImage},
		{"svg", "icon.svg", CategoryImage},
		{"no extension", "README", CategoryUnknown},
		{"unrecognized", "data.csv", CategoryUnknown},
		{"empty", "", CategoryUnknown},
		{"trailing dot", "weird.", CategoryUnknown},
		{"full url", "http://cdn.example.com/media/clip.mp4", CategoryVideo},
		{"url with query", "http://x/song.mp3?token=abc", CategoryAudio},
		{"url with fragment", "http://x/pic.png#section", CategoryImage},
		{"extension in query only", "http://x/file?name=a.mp3", CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.in); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	// Same input must always yield the same category.
	for i := 0; i < 3; i++ {
		if got := Classify("http://x/y/clip.mp4"); got != CategoryVideo {
			t.Fatalf("call %d: got %v, want %v", i, got, CategoryVideo)
		}
	}
}

func TestCategory_Dir(t *testing.T) {
	tests := []struct {
		c    Category
		want string
	}{
		{CategoryAudio, "audios"},
		{CategoryVideo, "videos"},
		{CategoryImage, "images"},
		{CategoryUnknown, ""},
	}
	for _, tt := range tests {
		if got := tt.c.Dir(); got != tt.want {
			t.Errorf("%v.Dir() = %q, want %q", tt.c, got, tt.want)
		}
	}
}

func TestExt(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"clip.mp4", "mp4"},
		{"archive.tar.gz", "gz"},
		{"SONG.MP3", "mp3"},
		{"http://x/a/b.webm?dl=1#top", "webm"},
		{"noext", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Ext(tt.in); got != tt.want {
			t.Errorf("Ext(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewRef(t *testing.T) {
	r := NewRef("http://x/y/clip.mp4")
	if r.URL != "http://x/y/clip.mp4" {
		t.Errorf("URL = %q", r.URL)
	}
	if r.Filename != "clip.mp4" {
		t.Errorf("Filename = %q, want clip.mp4", r.Filename)
	}
	if r.Category != CategoryVideo {
		t.Errorf("Category = %v, want %v", r.Category, CategoryVideo)
	}
}
