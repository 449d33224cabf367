package domain

// IsTerminal は状態が Success または Error のいずれかであるかを返します。
func (s ImageStatus) IsTerminal() bool {
	return s == ImageStatusSuccess || s == ImageStatusError
}

// FindByID は指定 ID のスライドを返します。見つからない場合は false を返します。
func (ss Slides) FindByID(id int) (Slide, bool) {
	for _, s := range ss {
		if s.ID == id {
			return s, true
		}
	}
	return Slide{}, false
}

// Renumber は出現順に 1 始まりの連番 ID を振り直したコピーを返します。
func (ss Slides) Renumber() Slides {
	out := make(Slides, len(ss))
	for i, s := range ss {
		s.ID = i + 1
		out[i] = s
	}
	return out
}

// NewPendingResults はスライドごとに Pending 状態の ImageResult を作成します。
func (ss Slides) NewPendingResults() []ImageResult {
	results := make([]ImageResult, len(ss))
	for i, s := range ss {
		results[i] = ImageResult{SlideID: s.ID, Status: ImageStatusPending}
	}
	return results
}

// CountByStatus は各状態の件数を集計します。
func CountByStatus(results []ImageResult) map[ImageStatus]int {
	counts := make(map[ImageStatus]int, 4)
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}

// Clone は画像データを含めた ImageResult のディープコピーを返します。
func (r ImageResult) Clone() ImageResult {
	if r.Data != nil {
		r.Data = append([]byte(nil), r.Data...)
	}
	return r
}
