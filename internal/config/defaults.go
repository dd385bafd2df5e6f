package config

// Default returns the built-in configuration. A user config overrides it
// field by field; list-valued profile fields replace the defaults wholesale.
func Default() Config {
	var c Config

	c.App.Port = 8080
	c.App.DataDir = "data"

	c.Scheduler.IntervalMinutes = 120
	c.Scheduler.GraceSeconds = 120

	c.Discovery.Concurrency = 1
	c.Discovery.MaxResultsPerRun = 50
	c.Discovery.MinFitScore = 60
	c.Discovery.FetchTimeoutSeconds = 120

	c.Search.Keywords = []string{"AI Engineer", "ML Engineer", "Machine Learning Engineer"}
	c.Search.Locations = []string{"Bangalore", "Remote"}
	c.Search.MaxPerQuery = 25

	c.Profile = defaultProfile()

	c.Sink.Path = "listings.db"
	c.Dedup.Path = "seen_urls.json"

	return c
}

func defaultProfile() Profile {
	return Profile{
		Skills: []string{
			"Python", "Machine Learning", "Deep Learning", "NLP",
			"LLM", "Large Language Models", "LangChain", "RAG",
			"Prompt Engineering", "Hugging Face",
			"TensorFlow", "Keras", "Scikit-Learn", "FastAPI",
			"NumPy", "Pandas", "Transformer", "PyTorch",
			"FAISS", "Vector Database",
			"AI", "Artificial Intelligence", "API Development",
			"Backend Development", "Node.js", "GenAI", "Generative AI",
		},
		TargetTitles: []string{
			"AI Engineer",
			"Machine Learning Engineer",
			"ML Engineer",
			"AI Developer",
			"LLM Engineer",
			"NLP Engineer",
			"Deep Learning Engineer",
			"Data Scientist",
			"Applied ML Engineer",
			"AI/ML Engineer",
			"GenAI Engineer",
			"Generative AI Engineer",
			"ML Developer",
			"Machine Learning Developer",
			"Conversational AI Engineer",
			"AI Research Engineer",
		},
		ExcludedTitles: []string{
			"Computer Vision Engineer",
			"CV Engineer",
			"Image Processing Engineer",
			"Video AI Engineer",
		},
		ExcludedKeywords: []string{
			"computer vision", "opencv", "image processing",
			"object detection", "yolo", "image recognition",
			"video processing", "image classification",
			"image segmentation", "visual recognition",
		},
		PreferredLocations: []string{
			"Bangalore", "Bengaluru",
			"Hyderabad",
			"Chennai",
			"Kochi", "Cochin",
			"Calicut", "Kozhikode",
			"Trivandrum", "Thiruvananthapuram",
			"Mohali",
		},
		OtherLocations: []string{
			"Mumbai", "Pune", "Delhi", "Gurgaon", "Noida", "Gurugram", "India",
		},
		ExperienceYears: 1,
	}
}
