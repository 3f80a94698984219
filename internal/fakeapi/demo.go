package fakeapi

// SeedDemo fills the server with a small sample lineup and media catalog
func (s *Server) SeedDemo() {
	s.AddFile("movies/night-of-the-living-dead.mp4", 1_480_000_000, 5760)
	s.AddFile("movies/his-girl-friday.mkv", 1_720_000_000, 5520)
	s.AddFile("shows/bonanza/s01e01.mp4", 420_000_000, 2940)
	s.AddFile("shows/bonanza/s01e02.mp4", 418_000_000, 2910)
	s.AddFile("shows/bonanza/s01e03.mp4", 421_000_000, 2935)
	s.AddFile("shorts/popeye-01.mp4", 64_000_000, 0)
	s.AddFile("shorts/popeye-02.mp4", 61_000_000, 412)

	classics := s.SeedPlaylist(Playlist{
		Name:        "Classic Movies",
		Description: "Public domain features",
		Tags:        []string{"movies", "classic"},
		Items: []PlaylistItem{
			{FilePath: "movies/night-of-the-living-dead.mp4", Duration: 5760, Title: "Night of the Living Dead"},
			{FilePath: "movies/his-girl-friday.mkv", Duration: 5520, Title: "His Girl Friday"},
		},
	})
	s.SeedPlaylist(Playlist{
		Name: "Westerns",
		Tags: []string{"tv"},
		Items: []PlaylistItem{
			{FilePath: "shows/bonanza/s01e01.mp4", Duration: 2940, Title: "Bonanza S01E01"},
		},
	})

	settings := StreamSettings{
		VideoBitrate: 4000, AudioBitrate: 128, SegmentDuration: 6, PlaylistSize: 10,
		TranscodePreset: "software_fast", Resolution: "1920x1080",
	}
	s.SeedChannel(Channel{
		Name: "Movie Vault", Number: 1, Category: "Movies",
		PlaylistID: &classics, Loop: true, Enabled: true, StreamSettings: settings,
	})
	s.SeedChannel(Channel{
		Name: "Cartoon Corner", Number: 2, Category: "Kids",
		StreamSettings: settings,
	})
}
