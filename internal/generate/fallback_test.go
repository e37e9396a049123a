package generate

import (
	"strings"
	"testing"
)

func TestLocalGeneratorAlwaysReturnsTwoPosts(t *testing.T) {
	t.Parallel()

	g := NewLocalGenerator(discardLogger())

	tests := []struct {
		name     string
		topic    string
		research string
		category string
	}{
		{name: "empty research", topic: "بازاریابی محتوایی", research: ""},
		{name: "research without bullets", topic: "مدیریت زمان", research: "متن کوتاه"},
		{
			name:  "research with bullets",
			topic: "هوش مصنوعی",
			research: "نتایج جستجو:\n" +
				"• هوش مصنوعی شاخه‌ای از علوم کامپیوتر است که به ساخت سامانه‌های هوشمند می‌پردازد\n" +
				"• یادگیری ماشین زیرمجموعه‌ای از هوش مصنوعی است که از داده برای بهبود عملکرد استفاده می‌کند\n",
		},
		{name: "explicit category", topic: "فروش", research: "", category: CategoryMarketing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			posts := g.Generate(tt.topic, tt.research, tt.category)
			for i, p := range posts {
				if strings.TrimSpace(p) == "" {
					t.Errorf("post %d is empty", i)
				}
			}
			if !strings.Contains(posts[0], tt.topic) {
				t.Errorf("first post does not mention topic %q: %q", tt.topic, posts[0])
			}
		})
	}
}

func TestLocalGeneratorUsesResearchPoints(t *testing.T) {
	t.Parallel()

	g := NewLocalGenerator(discardLogger())

	point := "• برنامه‌ریزی روزانه با فهرست کارها بهره‌وری را به شکل چشمگیری افزایش می‌دهد"
	research := "محتوای ویکی‌پدیا:\nمقدمه کلی\n\nنتایج جستجو:\n" + point + "\n"

	posts := g.Generate("مدیریت زمان", research, "")
	if !strings.Contains(posts[0], point) {
		t.Errorf("first post missing extracted key point: %q", posts[0])
	}
}

func TestExtractKeyPoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		research string
		want     int
	}{
		{name: "empty", research: "", want: 0},
		{
			name: "urls and short lines skipped",
			research: "نتایج جستجو:\n" +
				"https://example.com/article\n" +
				"کوتاه\n" +
				"• این خط یک نکته معتبر و به اندازه کافی طولانی برای استخراج است\n",
			want: 1,
		},
		{
			name: "caps at eight points",
			research: "نتایج جستجو:\n" + strings.Repeat(
				"• نکته‌ای طولانی و معتبر درباره موضوع که ارزش نگه داشتن در خلاصه را دارد\n", 12),
			want: maxKeyPoints,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := extractKeyPoints(tt.research)
			if len(got) != tt.want {
				t.Errorf("extractKeyPoints() returned %d points, want %d: %q", len(got), tt.want, got)
			}
		})
	}
}

func TestDetectCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		topic string
		want  string
	}{
		{topic: "کاربرد هوش مصنوعی در پزشکی", want: CategoryAI},
		{topic: "بازاریابی دیجیتال برای فروش بیشتر", want: CategoryMarketing},
		{topic: "مدیریت تیم‌های نرم‌افزاری", want: CategoryManagement},
		{topic: "آشپزی ایرانی", want: CategoryGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			t.Parallel()

			if got := detectCategory(tt.topic); got != tt.want {
				t.Errorf("detectCategory(%q) = %q, want %q", tt.topic, got, tt.want)
			}
		})
	}
}
