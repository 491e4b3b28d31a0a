package stages

const genericInstruction = "حلل النص من منظور هذه المرحلة وبيّن أهم الجوانب القانونية المتعلقة بها."

var catalog = []Stage{
	{
		Index:       0,
		Name:        "المرحلة الأولى: تحديد المشكلة القانونية",
		Description: "تحديد وتوضيح المشكلة القانونية الرئيسية في النص",
		KeyPoints: []string{
			"تحديد الوقائع الجوهرية",
			"صياغة المسألة القانونية بدقة",
			"تحديد أطراف النزاع ومراكزهم القانونية",
		},
		instruction: "حدد المشكلة القانونية الرئيسية والمسائل الفرعية المرتبطة بها، وصغها في صورة أسئلة قانونية واضحة.",
	},
	{
		Index:       1,
		Name:        "المرحلة الثانية: جمع المعلومات والوثائق",
		Description: "حصر المعلومات والوثائق اللازمة لدراسة المسألة",
		KeyPoints: []string{
			"الوثائق والمستندات المذكورة في النص",
			"المعلومات الناقصة الواجب استكمالها",
			"مصادر الإثبات المتاحة",
		},
		instruction: "استخرج المعلومات والوثائق الواردة في النص، وبيّن ما ينقص منها لاستكمال دراسة المسألة القانونية.",
	},
	{
		Index:       2,
		Name:        "المرحلة الثالثة: تحليل النصوص القانونية",
		Description: "تحليل النصوص التشريعية ذات الصلة بالمسألة",
		KeyPoints: []string{
			"النصوص التشريعية المنطبقة",
			"تفسير النصوص وبيان نطاقها",
			"العلاقة بين النصوص المختلفة",
		},
		instruction: "حدد النصوص القانونية ذات الصلة وحللها وفسرها وبيّن نطاق تطبيقها على الوقائع.",
	},
	{
		Index:       3,
		Name:        "المرحلة الرابعة: تحديد القواعد القانونية المنطبقة",
		Description: "استخلاص القواعد القانونية الواجبة التطبيق على الوقائع",
		KeyPoints: []string{
			"القواعد الآمرة والمكملة",
			"شروط انطباق كل قاعدة",
			"الاستثناءات الواردة على القواعد",
		},
		instruction: "استخلص القواعد القانونية الواجبة التطبيق وبيّن شروط انطباقها والاستثناءات الواردة عليها.",
	},
	{
		Index:       4,
		Name:        "المرحلة الخامسة: تحليل السوابق القضائية",
		Description: "دراسة الأحكام القضائية المشابهة واستخلاص المبادئ منها",
		KeyPoints: []string{
			"الأحكام القضائية المشابهة",
			"المبادئ القضائية المستقرة",
			"أوجه الشبه والاختلاف مع الحالة",
		},
		instruction: "اذكر السوابق القضائية المرتبطة بالمسألة واستخلص المبادئ التي أرستها ومدى انطباقها على الحالة.",
	},
	{
		Index:       5,
		Name:        "المرحلة السادسة: تحليل الفقه القانوني",
		Description: "عرض الآراء الفقهية المتعلقة بالمسألة وتقييمها",
		KeyPoints: []string{
			"الاتجاهات الفقهية الرئيسية",
			"حجج كل اتجاه",
			"الرأي الراجح وأسبابه",
		},
		instruction: "اعرض الآراء الفقهية المتعلقة بالمسألة وحجج كل رأي، ثم بيّن الرأي الراجح مع التعليل.",
	},
	{
		Index:       6,
		Name:        "المرحلة السابعة: تحليل الظروف الواقعية",
		Description: "تحليل الوقائع والظروف المحيطة وأثرها على التكييف القانوني",
		KeyPoints: []string{
			"التسلسل الزمني للوقائع",
			"الظروف المؤثرة في التكييف",
			"الوقائع المتنازع عليها",
		},
		instruction: "حلل الظروف الواقعية المحيطة بالمسألة وبيّن أثرها على التكييف القانوني والنتيجة المتوقعة.",
	},
	{
		Index:       7,
		Name:        "المرحلة الثامنة: تحديد الحلول القانونية الممكنة",
		Description: "حصر الحلول والخيارات القانونية المتاحة",
		KeyPoints: []string{
			"الحلول القضائية",
			"الحلول الودية والتسوية",
			"الإجراءات الوقتية والتحفظية",
		},
		instruction: "حدد جميع الحلول القانونية الممكنة للمسألة سواء كانت قضائية أو ودية مع الأساس القانوني لكل حل.",
	},
	{
		Index:       8,
		Name:        "المرحلة التاسعة: تقييم الحلول القانونية",
		Description: "تقييم كل حل من حيث المزايا والعيوب والمخاطر",
		KeyPoints: []string{
			"فرص النجاح",
			"التكلفة والمدة الزمنية",
			"المخاطر القانونية",
		},
		instruction: "قيّم كل حل قانوني ممكن من حيث فرص النجاح والتكلفة والمدة والمخاطر المحتملة.",
	},
	{
		Index:       9,
		Name:        "المرحلة العاشرة: اختيار الحل الأمثل",
		Description: "اختيار الحل الأنسب وتبرير الاختيار",
		KeyPoints: []string{
			"معايير المفاضلة",
			"مبررات الاختيار",
			"البدائل الاحتياطية",
		},
		instruction: "اختر الحل الأمثل للمسألة بناءً على معايير واضحة وبيّن مبررات الاختيار والبدائل الاحتياطية.",
	},
	{
		Index:       10,
		Name:        "المرحلة الحادية عشرة: صياغة الحل القانوني",
		Description: "صياغة الحل المختار صياغة قانونية دقيقة",
		KeyPoints: []string{
			"الأساس القانوني للحل",
			"الصياغة القانونية السليمة",
			"الخطوات الإجرائية للتنفيذ",
		},
		instruction: "صغ الحل القانوني المختار صياغة قانونية دقيقة مع بيان أساسه القانوني وخطوات تنفيذه.",
	},
	{
		Index:       11,
		Name:        "المرحلة الثانية عشرة: تقديم التوصيات",
		Description: "تقديم التوصيات العملية والقانونية النهائية",
		KeyPoints: []string{
			"التوصيات العملية",
			"الاحتياطات الواجب اتخاذها",
			"المتابعة المستقبلية",
		},
		instruction: "قدم توصيات عملية وقانونية نهائية تشمل الاحتياطات الواجب اتخاذها وخطوات المتابعة.",
	},
}
