package generate

import (
	"strings"
	"testing"
)

const (
	sampleIntroPost     = "هوش مصنوعی یکی از مهم‌ترین فناوری‌های عصر حاضر است و کاربردهای فراوانی در صنعت و زندگی روزمره دارد."
	samplePracticalPost = "برای شروع یادگیری هوش مصنوعی ابتدا مبانی ریاضی و برنامه‌نویسی را بیاموزید و سپس سراغ پروژه‌های عملی بروید."
)

func TestSplitPosts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "bracket markers",
			content: PostOneMarker + "\n" + sampleIntroPost + "\n\n" + PostTwoMarker + "\n" + samplePracticalPost,
			want:    []string{sampleIntroPost, samplePracticalPost},
		},
		{
			name:    "legacy dashed markers",
			content: "--- پست ۱ ---\n" + sampleIntroPost + "\n\n--- پست ۲ ---\n" + samplePracticalPost,
			want:    []string{sampleIntroPost, samplePracticalPost},
		},
		{
			name:    "marker embedded mid-text",
			content: sampleIntroPost + " " + PostTwoMarker + " " + samplePracticalPost,
			want:    []string{sampleIntroPost, samplePracticalPost},
		},
		{
			name:    "empty input",
			content: "   ",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := SplitPosts(tt.content)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitPosts() returned %d posts, want %d: %q", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("post %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplitPostsStripsMarkers(t *testing.T) {
	t.Parallel()

	content := PostOneMarker + " " + sampleIntroPost + "\n" + PostTwoMarker + " " + samplePracticalPost
	posts := SplitPosts(content)
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	for i, p := range posts {
		if strings.Contains(p, PostOneMarker) || strings.Contains(p, PostTwoMarker) {
			t.Errorf("post %d still contains a marker: %q", i, p)
		}
	}
}

func TestSplitPostsParagraphMidpoint(t *testing.T) {
	t.Parallel()

	paragraphs := []string{
		"پاراگراف اول درباره اهمیت موضوع و جایگاه آن در دنیای امروز صحبت می‌کند.",
		"پاراگراف دوم به تاریخچه و سیر تحول این حوزه در سال‌های اخیر می‌پردازد.",
		"پاراگراف سوم چند نمونه کاربرد عملی را با جزئیات کامل معرفی می‌کند.",
		"پاراگراف چهارم توصیه‌های پایانی برای شروع یادگیری را جمع‌بندی می‌کند.",
	}
	posts := SplitPosts(strings.Join(paragraphs, "\n\n"))
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts from 4 paragraphs, got %d", len(posts))
	}
	if !strings.Contains(posts[0], paragraphs[0]) || !strings.Contains(posts[0], paragraphs[1]) {
		t.Errorf("first post missing leading paragraphs: %q", posts[0])
	}
	if !strings.Contains(posts[1], paragraphs[2]) || !strings.Contains(posts[1], paragraphs[3]) {
		t.Errorf("second post missing trailing paragraphs: %q", posts[1])
	}
}

func TestSplitPostsWrapsShortContent(t *testing.T) {
	t.Parallel()

	content := "متن کوتاه"
	posts := SplitPosts(content)
	if len(posts) != 1 {
		t.Fatalf("expected 1 wrapped post, got %d", len(posts))
	}
	if !strings.Contains(posts[0], content) {
		t.Errorf("wrapped post does not contain original content: %q", posts[0])
	}
	if !strings.HasPrefix(posts[0], "📚") {
		t.Errorf("wrapped post missing framing prefix: %q", posts[0])
	}
}
