package course

// DefaultConfig is used when no course file is given on the command line.
func DefaultConfig() Config {
	return Config{
		TimeZone: DefaultTimeZone,
		Projects: map[int]string{
			1: "Inverted Index",
			2: "Partial Search",
			3: "Multithreading",
			4: "Search Engine",
		},
		Deadlines: map[string]map[int]string{
			Functionality.Key(): {
				1: "2020-02-16T21:00:00",
				2: "2020-03-08T21:00:00",
				3: "2020-04-05T21:00:00",
				4: "2020-04-26T21:00:00",
			},
			Design.Key(): {
				1: "2020-02-23T21:00:00",
				2: "2020-03-22T21:00:00",
				3: "2020-04-19T21:00:00",
				4: "2020-05-10T21:00:00",
			},
		},
	}
}

func Default() *Course {
	c, err := New(DefaultConfig())
	if err != nil {
		panic(err)
	}

	return c
}
