package lexicon

// Sentiment tables, one per sentiment vector dimension.
var (
	Positive = []string{
		"happy", "happier", "happiness", "better", "great", "good", "joy*", "excit*", "wonderful",
		"love", "loved", "relieved", "relief", "hopeful", "proud", "amazing", "glad", "celebrat*",
		"fantastic", "thrilled", "delighted", "peaceful", "calm",
	}
	Negative = []string{
		"sad", "sadness", "upset", "angry", "hurt", "hurts", "terrible", "awful", "depressed",
		"miserable", "frustrat*", "disappoint*", "lonely", "hopeless", "cry", "cried", "crying",
		"worse", "devastated", "heartbroken",
	}
	Anxiety = []string{
		"anxious", "anxiety", "worried", "worry", "worrying", "nervous", "panic*", "scared",
		"afraid", "stress*", "overwhelm*", "on edge", "dread*", "fear",
	}
	Gratitude = []string{
		"grateful", "gratitude", "thankful", "thank", "thanks", "appreciate*", "helped",
		"means a lot", "lucky to have", "blessed",
	}
	Mixed = []string{
		"mixed feelings", "bittersweet", "conflicted", "torn", "ambivalent", "at the same time", "but also",
	}
	Relief = []string{"relieved", "relief", "weight off"}
)

// Relationship tables.
var (
	Support = []string{
		"support*", "there for me", "listened", "advice", "comfort*", "encourag*", "reached out",
		"hug", "hugged", "checked on me", "looked out for", "helped",
	}
	Conflict = []string{
		"argument", "argued", "fight", "fought", "yelled", "conflict", "tension", "blamed",
		"ignored me", "betray*",
	}
	// SupporterLanguage is what someone offering support says.
	SupporterLanguage = []string{
		"i'm here for you", "here for you", "you can do", "you've got this", "proud of you",
		"let me help", "i'll help", "i can help", "don't worry", "it will be okay", "it'll be okay",
		"you're not alone",
	}
	// ReceivingLanguage is what someone who was supported says.
	ReceivingLanguage = []string{
		"helped me", "supported me", "there for me", "listened to me", "gave me", "advised me",
		"comforted me", "checked on me", "talking with", "talked to", "advice",
	}
	Family = []string{
		"mom", "mum", "dad", "mother", "father", "sister", "brother", "parents", "parent", "grandma",
		"grandpa", "grandmother", "grandfather", "aunt", "uncle", "cousin", "family", "son", "daughter",
	}
	Romantic = []string{
		"boyfriend", "girlfriend", "husband", "wife", "partner", "spouse", "fiance", "fiancée", "fiancé",
	}
	Therapeutic  = []string{"therapist", "counselor", "counsellor", "therapy", "psychologist"}
	Professional = []string{"coworker", "coworkers", "colleague", "colleagues", "my boss", "manager", "office"}
	FriendWords  = []string{"friend", "friends", "buddy", "pal"}
	CloseFriends = []string{"best friend", "bestie", "closest friend", "oldest friend"}
)

// Psychological tables.
var (
	Coping = []string{
		"talk", "talking", "talked", "breath*", "meditat*", "journal*", "exercise*", "walk", "walked",
		"therapy", "plan", "cope", "coping",
	}
	Resilience = []string{
		"bounce back", "keep going", "get through", "got through", "overcome", "stronger", "recover*",
		"hang in", "persever*",
	}
	Growth = []string{
		"realized", "realised", "learned", "learnt", "lesson", "understand now", "growing", "grown",
		"progress", "healing", "perspective", "now i see",
	}
	Stress = []string{
		"stressed", "overwhelm*", "too much", "can't handle", "pressure", "exhausted", "burnt out",
		"burned out", "can't sleep", "insomnia",
	}
	Crisis = []string{
		"hopeless", "give up", "can't go on", "worthless", "no way out", "breaking down",
	}
)

// Communication tables.
var (
	Vulnerability = []string{
		"scared", "afraid", "vulnerable", "honestly", "to be honest", "i admit", "struggling",
		"hard for me", "ashamed", "lonely", "hurt", "insecure", "embarrassed",
	}
	PersonalPronouns = []string{"i", "me", "my", "myself", "i'm", "i've", "i'd", "i'll", "mine"}

	NeutralIndicators = []string{
		"meeting", "schedule", "scheduled", "appointment", "reminder", "agenda", "calendar",
		"logistics", "o'clock", "status update", "conference call",
	}
	// Transitions mark a shift of emotional state inside the same memory.
	Transitions = []string{
		"but", "however", "although", "suddenly", "used to", "then i", "now i", "turned around", "shifted",
	}
)
