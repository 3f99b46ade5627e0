package tasks

// Static template tables the generators draw from. Entries are grouped by
// difficulty band; generators fall back to the beginner table when a band has
// no entries.

type kanjiEntry struct {
	Kanji   string
	Reading string
	Meaning string
}

var kanjiReadingTable = map[Difficulty][]kanjiEntry{
	Beginner: {
		{"人", "ひと", "person"},
		{"日本", "にほん", "Japan"},
		{"学生", "がくせい", "student"},
		{"先生", "せんせい", "teacher"},
		{"友達", "ともだち", "friend"},
		{"家族", "かぞく", "family"},
		{"時間", "じかん", "time"},
		{"毎日", "まいにち", "every day"},
	},
	Intermediate: {
		{"経済", "けいざい", "economy"},
		{"社会", "しゃかい", "society"},
		{"政治", "せいじ", "politics"},
		{"環境", "かんきょう", "environment"},
		{"技術", "ぎじゅつ", "technology"},
		{"文化", "ぶんか", "culture"},
	},
	Advanced: {
		{"曖昧", "あいまい", "ambiguous"},
		{"躊躇", "ちゅうちょ", "hesitation"},
		{"矛盾", "むじゅん", "contradiction"},
		{"概念", "がいねん", "concept"},
		{"抽象", "ちゅうしょう", "abstract"},
	},
}

var kanjiWritingTable = map[Difficulty][]kanjiEntry{
	Beginner: {
		{"今日", "きょう", "today"},
		{"明日", "あした", "tomorrow"},
		{"学校", "がっこう", "school"},
		{"電車", "でんしゃ", "train"},
		{"本", "ほん", "book"},
		{"水", "みず", "water"},
	},
	Intermediate: {
		{"研究", "けんきゅう", "research"},
		{"会議", "かいぎ", "meeting"},
		{"連絡", "れんらく", "contact"},
		{"予約", "よやく", "reservation"},
	},
	Advanced: {
		{"複雑", "ふくざつ", "complex"},
		{"効率", "こうりつ", "efficiency"},
		{"責任", "せきにん", "responsibility"},
	},
}

type particleEntry struct {
	Sentence  string // blanks marked with ＿
	Particles []string
	Function  string // grammatical function, quoted in the explanation
}

var particleTable = map[Difficulty][]particleEntry{
	Beginner: {
		{"私＿学生です。", []string{"は"}, "主題"},
		{"犬＿好きです。", []string{"が"}, "対象"},
		{"本＿読みます。", []string{"を"}, "目的語"},
		{"学校＿行きます。", []string{"に"}, "方向"},
		{"図書館＿勉強します。", []string{"で"}, "場所"},
		{"友達＿話します。", []string{"と"}, "相手"},
		{"先生＿本です。", []string{"の"}, "所有"},
	},
	Intermediate: {
		{"東京＿大阪まで新幹線で行きます。", []string{"から"}, "起点"},
		{"雨＿降っているので、傘を持って行きます。", []string{"が"}, "主語"},
		{"彼は日本語＿英語も話せます。", []string{"も"}, "並列"},
		{"私＿田中です。犬＿飼っています。", []string{"は", "を"}, "主題と目的語"},
		{"朝ご飯＿食べてから、会社＿行きます。", []string{"を", "に"}, "目的語と方向"},
	},
	Advanced: {
		{"この問題は思った＿難しい。", []string{"より"}, "比較"},
		{"努力した＿かかわらず、失敗した。", []string{"にも"}, "逆接"},
		{"結果＿よって、方針＿変わります。", []string{"に", "が"}, "基準と主語"},
	},
}

type keigoEntry struct {
	Plain    string
	Sonkeigo string
	Kenjougo string
}

var keigoTable = map[Difficulty][]keigoEntry{
	Beginner: {
		{"行く", "いらっしゃる", "参る"},
		{"来る", "いらっしゃる", "参る"},
		{"いる", "いらっしゃる", "おる"},
		{"する", "なさる", "いたす"},
		{"言う", "おっしゃる", "申す"},
		{"食べる", "召し上がる", "いただく"},
	},
	Intermediate: {
		{"見る", "ご覧になる", "拝見する"},
		{"聞く", "お聞きになる", "伺う"},
		{"知る", "ご存知だ", "存じる"},
		{"もらう", "お受け取りになる", "いただく"},
		{"あげる", "くださる", "差し上げる"},
		{"会う", "お会いになる", "お目にかかる"},
	},
	Advanced: {
		{"思う", "お思いになる", "存じる"},
		{"読む", "お読みになる", "拝読する"},
		{"待つ", "お待ちになる", "お待ちする"},
		{"寝る", "お休みになる", "休ませていただく"},
	},
}

type wordOrderEntry struct {
	Words   []string
	Meaning string
}

var wordOrderTable = map[Difficulty][]wordOrderEntry{
	Beginner: {
		{[]string{"私は", "学校に", "行きます"}, "I go to school"},
		{[]string{"猫が", "魚を", "食べます"}, "The cat eats fish"},
		{[]string{"彼は", "本を", "読みます"}, "He reads a book"},
		{[]string{"母は", "料理を", "作ります"}, "Mother cooks a meal"},
	},
	Intermediate: {
		{[]string{"私は", "毎朝", "七時に", "起きます"}, "I get up at seven every morning"},
		{[]string{"彼女は", "図書館で", "日本語を", "勉強します"}, "She studies Japanese at the library"},
		{[]string{"友達と", "映画を", "見に", "行きました"}, "I went to see a movie with a friend"},
	},
	Advanced: {
		{[]string{"時間が", "あれば", "美術館に", "寄って", "帰ります"}, "If there is time, I will stop by the museum on the way home"},
		{[]string{"彼が", "提案した", "計画は", "来月", "実行されます"}, "The plan he proposed will be carried out next month"},
	},
}

type counterEntry struct {
	Counter string
	Reading string
	Items   []string
}

var counterTable = map[Difficulty][]counterEntry{
	Beginner: {
		{"人", "にん", []string{"学生", "先生", "友達", "子供"}},
		{"本", "ほん", []string{"鉛筆", "ペン", "傘", "木"}},
		{"枚", "まい", []string{"紙", "写真", "お皿", "チケット"}},
		{"個", "こ", []string{"りんご", "ボール", "卵", "パン"}},
		{"匹", "ひき", []string{"犬", "猫", "魚", "うさぎ"}},
		{"冊", "さつ", []string{"本", "雑誌", "辞書", "ノート"}},
	},
	Intermediate: {
		{"台", "だい", []string{"車", "テレビ", "パソコン", "自転車"}},
		{"頭", "とう", []string{"牛", "象", "ライオン", "熊"}},
		{"羽", "わ", []string{"鳥", "鶏", "鳩", "すずめ"}},
		{"回", "かい", []string{"授業", "会議", "試験", "練習"}},
		{"足", "そく", []string{"靴", "靴下", "スリッパ", "ブーツ"}},
	},
	Advanced: {
		{"軒", "けん", []string{"家", "店", "病院", "工場"}},
		{"通", "つう", []string{"手紙", "メール", "はがき", "招待状"}},
		{"組", "くみ", []string{"ペア", "チーム", "グループ", "セット"}},
	},
}
