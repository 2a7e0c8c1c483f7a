package classifier

// Scores are the headline evaluation metrics.
type Scores struct {
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
}

// confusionMatrix counts predictions for k classes; rows are actual classes
// and columns predicted classes.
func confusionMatrix(actual, predicted []int, k int) [][]int {
	cm := make([][]int, k)
	for i := range cm {
		cm[i] = make([]int, k)
	}
	for i, a := range actual {
		cm[a][predicted[i]]++
	}
	return cm
}

// score computes accuracy plus precision, recall and F1. With two classes the
// scores are those of class index pos; otherwise per-class values are averaged
// weighted by support. A zero denominator yields 0.
func score(cm [][]int, pos int) Scores {
	k := len(cm)
	total, correct := 0, 0
	for i := range cm {
		for j, v := range cm[i] {
			total += v
			if i == j {
				correct += v
			}
		}
	}
	var s Scores
	if total == 0 {
		return s
	}
	s.Accuracy = float64(correct) / float64(total)
	if k == 2 {
		s.Precision, s.Recall, s.F1 = classScores(cm, pos)
		return s
	}
	for c := 0; c < k; c++ {
		support := 0
		for _, v := range cm[c] {
			support += v
		}
		if support == 0 {
			continue
		}
		p, r, f := classScores(cm, c)
		w := float64(support) / float64(total)
		s.Precision += w * p
		s.Recall += w * r
		s.F1 += w * f
	}
	return s
}

func classScores(cm [][]int, c int) (precision, recall, f1 float64) {
	tp := cm[c][c]
	fp, fn := 0, 0
	for i := range cm {
		if i != c {
			fp += cm[i][c]
			fn += cm[c][i]
		}
	}
	precision = ratio(tp, tp+fp)
	recall = ratio(tp, tp+fn)
	f1 = ratio(2*tp, 2*tp+fp+fn)
	return precision, recall, f1
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// positiveClass picks the binary positive class: the class whose value is 1,
// or the second class when no value is 1. Label-encoded text targets always
// take the second sorted label.
func positiveClass(classes []float64) int {
	for i, c := range classes {
		if c == 1 {
			return i
		}
	}
	return 1
}
