package normalize

import "testing"

func TestTags(t *testing.T) {
	tests := []struct {
		name  string
		title string
		kinds []TagKind
	}{
		{"clean title", "Hey Jude", nil},
		{"parenthesized remaster", "Hey Jude (Remastered 2015)", []TagKind{TagRemaster}},
		{"dash remaster", "Hey Jude - Remastered 2015", []TagKind{TagRemaster}},
		{"live", "Yesterday (Live at the BBC)", []TagKind{TagLive}},
		{"remix", "Blue Monday (Hardfloor Remix)", []TagKind{TagRemix}},
		{"acoustic", "Layla (Acoustic)", []TagKind{TagAcoustic}},
		{"unplugged is acoustic", "Layla (MTV Unplugged)", []TagKind{TagAcoustic}},
		{"demo", "One (Demo)", []TagKind{TagDemo}},
		{"deluxe", "Song (Deluxe Edition)", []TagKind{TagDeluxe}},
		{"anniversary is deluxe", "Song (25th Anniversary)", []TagKind{TagDeluxe}},
		{"radio edit", "Song (Radio Edit)", []TagKind{TagRadioEdit}},
		{"single version is radio edit", "Song (Single Version)", []TagKind{TagRadioEdit}},
		{"mono", "One (Mono)", []TagKind{TagMono}},
		{"featured", "Song (feat. Guest)", []TagKind{TagFeatured}},
		{"instrumental", "Song (Instrumental)", []TagKind{TagInstrumental}},
		{"alternate take", "Song (Take 3)", []TagKind{TagAlternate}},
		{"bare year", "Song (1999)", []TagKind{TagYear}},
		{"soundtrack", "Song (From the Motion Picture)", []TagKind{TagSoundtrack}},
		{"other", "Song (Bonus Thoughts)", []TagKind{TagOther}},
		{"multiple segments", "One [Mono] (2015 Remaster)", []TagKind{TagMono, TagRemaster}},
		{"mixed dash and parens", "Yesterday (Live) - 2009 Remaster", []TagKind{TagLive, TagRemaster}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags := Tags(tt.title)
			if len(tags) != len(tt.kinds) {
				t.Fatalf("Tags(%q) = %v, want kinds %v", tt.title, tags, tt.kinds)
			}
			for i, kind := range tt.kinds {
				if tags[i].Kind != kind {
					t.Errorf("Tags(%q)[%d].Kind = %v, want %v", tt.title, i, tags[i].Kind, kind)
				}
			}
		})
	}
}

func TestTagYearExtraction(t *testing.T) {
	tags := Tags("Hey Jude - Remastered 2015")
	if len(tags) != 1 {
		t.Fatalf("expected one tag, got %v", tags)
	}
	if tags[0].Year != 2015 {
		t.Errorf("expected year 2015, got %d", tags[0].Year)
	}

	tags = Tags("Song (Live at Wembley)")
	if len(tags) != 1 || tags[0].Year != 0 {
		t.Errorf("expected no year, got %v", tags)
	}
}

func TestHasKind(t *testing.T) {
	tags := Tags("Yesterday (Live at the BBC) - 2009 Remaster")
	if !HasKind(tags, TagLive) {
		t.Error("expected live tag")
	}
	if !HasKind(tags, TagRemaster) {
		t.Error("expected remaster tag")
	}
	if HasKind(tags, TagRemix) {
		t.Error("unexpected remix tag")
	}
}

func TestOfKind(t *testing.T) {
	tags := Tags("Song (Hardfloor Remix) (Club Edit)")
	remixes := OfKind(tags, TagRemix)
	if len(remixes) != 2 {
		t.Fatalf("expected two remix tags, got %v", remixes)
	}
	if remixes[0].Raw != "Hardfloor Remix" {
		t.Errorf("unexpected raw segment %q", remixes[0].Raw)
	}
}
