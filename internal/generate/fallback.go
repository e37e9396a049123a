package generate

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// maxKeyPoints bounds how many research bullet points feed the
// fallback templates.
const maxKeyPoints = 8

// Category names for the template selection heuristic.
const (
	CategoryAI         = "ai"
	CategoryMarketing  = "marketing"
	CategoryManagement = "management"
	CategoryGeneral    = "general"
)

var categoryKeywords = map[string][]string{
	CategoryAI:         {"هوش مصنوعی", "ماشین", "الگوریتم", "داده", "ai", "ml"},
	CategoryMarketing:  {"بازاریابی", "فروش", "تبلیغات", "برند", "مشتری", "marketing"},
	CategoryManagement: {"مدیریت", "رهبری", "تیم", "سازمان", "استراتژی", "management"},
}

// LocalGenerator synthesizes two posts from the research text alone,
// without any network call. It is the guaranteed last-resort path when
// the remote generator's retries are exhausted.
type LocalGenerator struct {
	logger *slog.Logger
}

// NewLocalGenerator creates the deterministic fallback generator.
func NewLocalGenerator(logger *slog.Logger) *LocalGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalGenerator{logger: logger.With("component", "local_generator")}
}

// Generate returns exactly two non-empty posts for any input. A panic
// anywhere inside template assembly degrades to a generic two-part
// message rather than propagating.
func (g *LocalGenerator) Generate(topic, research, category string) (posts [2]string) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("Local generation panicked, using generic posts", "topic", topic, "panic", r)
			posts = genericPosts(topic)
		}
	}()

	points := extractKeyPoints(research)
	if category == "" {
		category = detectCategory(topic)
	}

	intro := introPoints(points)
	practical := practicalPoints(points)

	switch category {
	case CategoryAI:
		posts[0] = fmt.Sprintf(aiIntroTemplate, topic, intro)
		posts[1] = fmt.Sprintf(aiPracticalTemplate, topic, practical)
	case CategoryMarketing:
		posts[0] = fmt.Sprintf(marketingIntroTemplate, topic, intro)
		posts[1] = fmt.Sprintf(marketingPracticalTemplate, topic, practical)
	case CategoryManagement:
		posts[0] = fmt.Sprintf(managementIntroTemplate, topic, intro)
		posts[1] = fmt.Sprintf(managementPracticalTemplate, topic, practical)
	default:
		posts[0] = fmt.Sprintf(generalIntroTemplate, topic, intro)
		posts[1] = fmt.Sprintf(generalPracticalTemplate, topic, practical, hashtag(topic))
	}
	return posts
}

// extractKeyPoints pulls bullet lines out of the research blob,
// favoring the block after the search-results marker.
func extractKeyPoints(research string) []string {
	section := research
	if idx := strings.Index(research, "نتایج جستجو:"); idx >= 0 {
		section = research[idx:]
	}

	var points []string
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "http") || utf8.RuneCountInString(line) <= 30 {
			continue
		}
		switch {
		case strings.HasPrefix(line, "•"):
			points = append(points, line)
		case strings.Contains(line, ":") && utf8.RuneCountInString(strings.TrimSpace(strings.SplitN(line, ":", 2)[1])) > 20:
			points = append(points, "• "+line)
		case utf8.RuneCountInString(line) > 50:
			points = append(points, "• "+line)
		}
		if len(points) >= maxKeyPoints {
			break
		}
	}
	return points
}

// detectCategory picks the template family with the most keyword hits.
func detectCategory(topic string) string {
	lower := strings.ToLower(topic)
	best, bestCount := CategoryGeneral, 0
	for category, keywords := range categoryKeywords {
		count := 0
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				count++
			}
		}
		if count > bestCount {
			best, bestCount = category, count
		}
	}
	return best
}

func introPoints(points []string) string {
	half := points
	if len(points) > 4 {
		half = points[:4]
	}
	if len(half) == 0 {
		half = []string{
			"• موضوعی پرکاربرد و مفید",
			"• نیاز به مطالعه و تحقیق بیشتر",
			"• کاربرد در صنایع مختلف",
		}
	}
	return strings.Join(half, "\n")
}

func practicalPoints(points []string) string {
	var half []string
	if len(points) > 4 {
		half = points[4:]
	}
	if len(half) == 0 {
		half = []string{
			"• مطالعه منابع معتبر",
			"• تمرین و تکرار مداوم",
			"• استفاده از ابزارهای مناسب",
			"• همکاری با متخصصان",
		}
	}
	return strings.Join(half, "\n")
}

func hashtag(topic string) string {
	return "#آموزش #" + strings.ReplaceAll(topic, " ", "_")
}

const (
	generalIntroTemplate = `📚 %[1]s

🔍 %[1]s یکی از موضوعات مهم و کاربردی در دنیای امروز محسوب می‌شود.

💡 نکات کلیدی:
%[2]s

🎯 این موضوع می‌تواند در بهبود عملکرد و دستیابی به اهداف کمک کند.`

	generalPracticalTemplate = `⚡ نکات عملی %[1]s

🚀 برای موفقیت در این حوزه:

%[2]s

💪 تنها با عمل کردن می‌توان به نتایج مطلوب رسید!

%[3]s`

	aiIntroTemplate = `🤖 %[1]s

🔍 %[1]s از فناوری‌های تحول‌آفرین عصر حاضر است که مرز میان ممکن و غیرممکن را جابه‌جا کرده است.

💡 نکات کلیدی:
%[2]s

🎯 شناخت این فناوری برای آینده شغلی هر متخصصی ضروری است.`

	aiPracticalTemplate = `⚡ کاربرد عملی %[1]s

🚀 برای ورود به این حوزه:

%[2]s

💪 یادگیری مستمر، کلید همراهی با این فناوری است!

#هوش_مصنوعی #فناوری`

	marketingIntroTemplate = `📈 %[1]s

🔍 %[1]s از مهارت‌های کلیدی برای رشد هر کسب‌وکاری است.

💡 نکات کلیدی:
%[2]s

🎯 شناخت درست مخاطب، نیمی از مسیر موفقیت است.`

	marketingPracticalTemplate = `⚡ راهکارهای عملی %[1]s

🚀 برای نتیجه گرفتن در این حوزه:

%[2]s

💪 بازاریابی موفق حاصل آزمون و بهبود مداوم است!

#بازاریابی #کسب_وکار`

	managementIntroTemplate = `👔 %[1]s

🔍 %[1]s از ارکان موفقیت سازمان‌ها و تیم‌های حرفه‌ای است.

💡 نکات کلیدی:
%[2]s

🎯 مدیر موفق کسی است که رشد تیمش را اولویت می‌داند.`

	managementPracticalTemplate = `⚡ توصیه‌های عملی %[1]s

🚀 برای رهبری اثربخش:

%[2]s

💪 اعتماد تیم با شفافیت و ثبات ساخته می‌شود!

#مدیریت #رهبری`
)

func genericPosts(topic string) [2]string {
	return [2]string{
		fmt.Sprintf("📚 %s\n\nاین موضوع از جنبه‌های مختلف قابل بررسی است و یادگیری آن می‌تواند در مسیر حرفه‌ای شما موثر باشد.", topic),
		"💡 برای شروع، منابع معتبر را مطالعه کنید و با تمرین مداوم مهارت خود را ارتقا دهید.",
	}
}
