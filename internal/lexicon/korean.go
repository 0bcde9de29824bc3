package lexicon

// KoreanVersion identifies the built-in Korean tables.
const KoreanVersion = "ko-2024.1"

// Korean returns the built-in Korean lexicon. It also carries a handful of
// English markers since chat logs are frequently mixed-language.
func Korean() *Lexicon {
	return MustNew(KoreanTables())
}

// KoreanTables returns a fresh copy of the built-in Korean tables, suitable
// as a starting point for a custom lexicon file.
func KoreanTables() Tables {
	return Tables{
		Version: KoreanVersion,
		Locale:  "ko-KR",

		Formality: ToneTable{
			Baseline: 50,
			Markers: []Marker{
				{"니다", 8}, {"십시오", 10}, {"께서", 6}, {"드립니다", 6}, {"귀하", 8},
				{"regards", 8}, {"sincerely", 10}, {"dear", 6},
				{"ㅋㅋ", -10}, {"ㅎㅎ", -8}, {"ㅇㅇ", -8}, {"ㄱㄱ", -8}, {"ㅠㅠ", -4}, {"거야", -6},
				{"lol", -8}, {"gonna", -6}, {"wanna", -6},
			},
		},
		Enthusiasm: ToneTable{
			Baseline:    0,
			EmojiWeight: 6,
			Markers: []Marker{
				{"!", 10}, {"정말", 8}, {"진짜", 8}, {"너무", 6}, {"최고", 12}, {"대박", 12}, {"짱", 10},
				{"ㅋㅋ", 6}, {"ㅎㅎ", 4},
				{"awesome", 10}, {"amazing", 10}, {"love", 8},
			},
		},
		Directness: ToneTable{
			Baseline: 50,
			Markers: []Marker{
				{"반드시", 10}, {"꼭", 6}, {"바로", 6}, {"당장", 10}, {"하세요", 4}, {"해라", 10},
				{"must", 10}, {"immediately", 10}, {"need to", 6},
				{"혹시", -8}, {"아마", -6}, {"것 같", -8}, {"면 좋겠", -8}, {"괜찮으시다면", -10},
				{"maybe", -8}, {"perhaps", -8}, {"might", -6}, {"i think", -6},
			},
		},
		Politeness: ToneTable{
			Baseline: 0,
			Markers: []Marker{
				{"감사합니다", 15}, {"고맙습니다", 15}, {"감사해요", 10}, {"고마워", 8},
				{"죄송합니다", 12}, {"죄송해요", 10}, {"부탁드립니다", 12}, {"부탁해요", 8}, {"실례지만", 10},
				{"please", 10}, {"thank", 10}, {"sorry", 8}, {"appreciate", 10},
			},
		},

		Conjunctions:  []string{"그리고", "그래서", "하지만", "그런데", "그러나", "그러면", "또한", "근데", "and", "but", "so", "because"},
		Interjections: []string{"아", "오", "와", "헐", "음", "어", "앗", "우와", "oh", "wow", "hmm"},
		Fillers:       []string{"그냥", "약간", "뭔가", "좀", "막", "이제", "like", "just", "actually", "basically"},
		SentenceEndings: []Ending{
			{Term: "니다"}, {Term: "네요"}, {Term: "요"}, {Term: "죠"}, {Term: "다"},
			{Term: "ㅋㅋ", Appendable: true}, {Term: "ㅎㅎ", Appendable: true}, {Term: "~", Appendable: true},
		},
		StopWords: []string{
			"저는", "제가", "저", "나", "나는", "내가", "우리", "저희", "그", "이", "저것", "것", "거", "수", "때",
			"좀", "더", "잘", "많이", "정말", "진짜", "너무", "그냥", "아주", "다", "안", "못", "또", "및", "등",
			"이런", "그런", "저런", "같은", "있는", "없는", "합니다", "있습니다", "입니다", "해요", "있어요",
			"했어요", "됐어요", "그리고", "그래서", "하지만", "그런데", "근데",
			"the", "a", "an", "and", "or", "but", "is", "are", "was", "were", "to", "of", "in", "on", "for",
			"with", "it", "this", "that", "i", "you", "we", "he", "she", "they", "me", "my", "your", "be",
			"have", "has", "do", "just", "so", "very",
		},
		Particles: []string{
			"에서", "으로", "에게", "까지", "부터", "처럼", "보다", "이랑",
			"은", "는", "이", "가", "을", "를", "에", "의", "도", "로", "와", "과", "만",
		},
		Topics: []Topic{
			{"business", []string{"사업", "비즈니스", "회사", "고객", "매출", "창업", "스타트업", "business", "customer", "revenue", "startup"}},
			{"marketing", []string{"마케팅", "광고", "홍보", "브랜드", "인스타", "sns", "marketing", "brand", "campaign"}},
			{"technology", []string{"개발", "코드", "앱", "프로그램", "서버", "인공지능", "software", "application", "code"}},
			{"finance", []string{"투자", "주식", "예산", "비용", "대출", "finance", "budget", "invest"}},
			{"health", []string{"건강", "운동", "병원", "다이어트", "수면", "health", "exercise"}},
			{"education", []string{"공부", "학교", "강의", "시험", "교육", "study", "course", "learn"}},
			{"travel", []string{"여행", "비행기", "호텔", "휴가", "travel", "trip"}},
			{"food", []string{"음식", "맛집", "요리", "커피", "식당", "food", "coffee", "recipe"}},
			{"daily", []string{"오늘", "주말", "가족", "친구", "일상", "weekend", "family", "friend"}},
			{"work", []string{"회의", "업무", "출근", "프로젝트", "보고서", "마감", "meeting", "deadline", "report"}},
		},

		SynonymGroups: [][]string{
			{"좋아요", "괜찮아요", "훌륭해요"},
			{"감사합니다", "고맙습니다"},
			{"빠르게", "신속하게", "얼른"},
			{"문제", "이슈"},
			{"확인", "체크"},
			{"great", "awesome", "nice"},
			{"help", "assist", "support"},
		},
		ProjectTriggers:    []string{"프로젝트", "project", "런칭", "launch", "캠페인", "campaign"},
		PreferenceTriggers: []string{"좋아해", "선호", "즐겨", "prefer", "i like", "i love"},
		ConstraintTriggers: []string{"예산", "마감", "안 돼", "못 해", "불가능", "deadline", "budget", "can't", "cannot"},
		MotivationKeywords: []string{"성장", "성공", "매출", "목표", "꿈", "도전", "growth", "goal", "success", "dream"},
		PainPointKeywords:  []string{"어려워", "어렵", "문제", "힘들", "고민", "걱정", "불편", "problem", "struggle", "difficult", "worried"},

		Register: []Pair{
			{Casual: "고마워요", Formal: "감사합니다"},
			{Casual: "미안해요", Formal: "죄송합니다"},
			{Casual: "알겠어요", Formal: "알겠습니다"},
			{Casual: "할게요", Formal: "하겠습니다"},
			{Casual: "줄게요", Formal: "드리겠습니다"},
			{Casual: "있어요", Formal: "있습니다"},
			{Casual: "없어요", Formal: "없습니다"},
			{Casual: "돼요", Formal: "됩니다"},
			{Casual: "해요", Formal: "합니다"},
			{Casual: "thanks", Formal: "thank you"},
		},
		Hedges: []string{"혹시 ", "아마도 ", "아마 ", "maybe ", "perhaps "},
		Phrases: Phrases{
			Softener:          "혹시 괜찮으시다면 ",
			Intensifier:       "정말 ",
			PoliteClosing:     "감사합니다.",
			Elaboration:       "필요하시면 더 자세히 설명드릴게요.",
			MotivationFraming: "%s 목표를 생각하면, ",
			ProjectReference:  " (%s 관련)",
			BracketAside:      " (참고로요)",
			DefaultEmoji:      "😊",
		},
	}
}
