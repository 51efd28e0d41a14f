package inspiration

// Seed returns the built-in library restored by ResetToDefault.
func Seed() []Category {
	return cloneCategories(seed)
}

var seed = []Category{
	{
		ID:    "appearance",
		Icon:  "palette",
		Title: "Appearance & First Impression",
		Questions: []Question{
			{ID: "app1", Text: "Describe their looks in three words", Type: QuestionStandard, Example: "Cold, mysterious, tall\nGentle, cute, petite\nSharp, androgynous, neat"},
			{ID: "app2", Text: "What first impression do they give?", Type: QuestionStandard, Example: "Hard to approach, but their eyes are kind\nAlways looks like they didn't sleep enough\nFull of energy, like a little sun"},
			{ID: "app3", Text: "If they were a color, which one?", Type: QuestionColor, Example: "Deep-sea blue, dark red, mint green..."},
			{ID: "app4", Text: "What is their fashion style?", Type: QuestionStandard, Example: "Loose, comfortable sportswear\nLayered, refined vintage\nStrictly black-and-white minimalism"},
			{ID: "app5", Text: "Any striking features?", Type: QuestionStandard, Example: "A beauty mark under one eye\nLong silver-white hair\nOne eyebrow always raised"},
		},
	},
	{
		ID:    "personality",
		Icon:  "psychology",
		Title: "Personality & Inner World",
		Questions: []Question{
			{ID: "per1", Text: "What is their defining trait?", Type: QuestionStandard, Example: "Relentlessly optimistic, almost never angry\nProfoundly lazy, never moves unless forced\nIcy toward anything that bores them"},
			{ID: "per2", Text: "Is there a contrast in them?", Type: QuestionStandard, Example: "Looks tough, but secretly a caretaker\nSeems like a party animal, actually a homebody\nQuiet, until you mention what they love"},
			{ID: "per3", Text: "What do they care about most?", Type: QuestionStandard, Example: "What others think\nTheir own principles\nTheir family's safety"},
			{ID: "per4", Text: "What are they most afraid of?", Type: QuestionStandard, Example: "Losing someone important\nFailing their goal\nBeing forgotten"},
			{ID: "per5", Text: "What do they do when happy?", Type: QuestionStandard, Example: "Hums without noticing\nTells everyone, a little too much\nHides away and grins alone"},
			{ID: "per6", Text: "How do they react when angry?", Type: QuestionStandard, Example: "Goes silent, the air turns heavy\nSarcasm, saying the opposite\nExplodes, then cools down fast"},
		},
	},
	{
		ID:    "behavior",
		Icon:  "gesture",
		Title: "Speech & Behavior",
		Questions: []Question{
			{ID: "beh1", Text: "What is their catchphrase?", Type: QuestionStandard, Example: "\"So boring.\" \"Tch, annoying.\"\n\"Ehh~\" \"I mean...\"\n\"Whatever.\""},
			{ID: "beh2", Text: "What is their tone of voice?", Type: QuestionStandard, Example: "Flat, barely any emotion\nRapid-fire, like a machine gun\nDramatic, full of adjectives"},
			{ID: "beh3", Text: "Any habitual gestures?", Type: QuestionStandard, Example: "Spins a pen while thinking\nPlays with their hair when nervous\nGlances up and right when lying"},
			{ID: "beh4", Text: "What are they usually doing?", Type: QuestionStandard, Example: "Listening to music with headphones on\nWatching street cats\nReading in a cafe"},
			{ID: "beh5", Text: "How do they react to strangers?", Type: QuestionStandard, Example: "Polite but distant\nStarts chatting right away\nShy, avoids eye contact"},
		},
	},
	{
		ID:    "background",
		Icon:  "history_edu",
		Title: "Background & Setting",
		Questions: []Question{
			{ID: "bg1", Text: "Do they have a special ability?", Type: QuestionStandard, Example: "Can talk to animals\nCan stop time\nNever gets lost"},
			{ID: "bg2", Text: "What is their most important possession?", Type: QuestionStandard, Example: "An old pocket watch they never put down\nA necklace left by their mother\nA notebook full of annotations"},
			{ID: "bg3", Text: "Any unusual past experiences?", Type: QuestionStandard, Example: "Traveled around the world\nLost their memory in an accident\nHunted by a secret organization"},
			{ID: "bg4", Text: "Why are they here?", Type: QuestionStandard, Example: "Searching for a long-lost sibling\nRunning from their hometown\nOn a secret mission"},
			{ID: "bg5", Text: "Do they have a secret?", Type: QuestionStandard, Example: "They are actually a robot\nThey see things others can't\nThey carry a family blood feud"},
			{ID: "bg6", Text: "What goal do they want most?", Type: QuestionStandard, Example: "Become the world's greatest swordsman\nOpen a bakery of their own\nTake revenge on someone"},
		},
	},
	{
		ID:    "relationships",
		Icon:  "groups",
		Title: "Relationships",
		Questions: []Question{
			{ID: "rel1", Text: "How do they treat friends?", Type: QuestionStandard, Example: "Sharp tongue, quietly helpful\nLooks after everyone like a parent\nFew friends, but all-in for each"},
			{ID: "rel2", Text: "What is their attitude to strangers?", Type: QuestionStandard, Example: "Basically ignores them\nWary, but returns kindness\nFriendly, loves meeting people"},
			{ID: "rel3", Text: "Is there someone important to them?", Type: QuestionStandard, Example: "A childhood friend\nA mentor who changed their life\nA rival who is half friend, half enemy"},
			{ID: "rel4", Text: "Who do they handle worst?", Type: QuestionStandard, Example: "People who cry easily\nOverly enthusiastic people\nOpponents far stronger than them"},
		},
	},
	{
		ID:    "reference",
		Icon:  "auto_stories",
		Title: "Inspiration & References",
		Questions: []Question{
			{ID: "ref1", Text: "A bit like ___ from ___", Type: QuestionReference, Example: "Gojo Satoru from Jujutsu Kaisen\nGiyu Tomioka from Demon Slayer\nYor from Spy x Family", Placeholder: "A bit like "},
			{ID: "ref2", Text: "A blend of ___ and ___", Type: QuestionReference, Example: "Tanjiro's kindness and Inosuke's wildness\nKakashi's laziness and Obito's obsession\nNatsume's gentleness and Matoba's coldness", Placeholder: "A blend of "},
			{ID: "ref3", Text: "Reference music or films?", Type: QuestionStandard, Example: "The mood of the film Joker\nRadiohead's \"Creep\"\nChopin's nocturnes"},
			{ID: "ref4", Text: "Describe them with three abstract nouns: ___", Type: QuestionStandard, Example: "Ice, labyrinth, old photographs\nSun, blade, ramen\nRose, chessboard, moonlight", Placeholder: "Described as: "},
		},
	},
}
