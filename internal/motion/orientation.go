package motion

import "wisefido-node/internal/models"

// OrientationClassifier 体位分类器
// 仅使用垂直轴分量（g），阈值之间为迟滞带，保持上一次标签防止抖动
type OrientationClassifier struct {
	standingMin float64 // az > standingMin → 站立
	lyingMax    float64 // |az| < lyingMax → 卧倒
}

// NewOrientationClassifier 创建体位分类器
func NewOrientationClassifier(standingMin, lyingMax float64) *OrientationClassifier {
	return &OrientationClassifier{
		standingMin: standingMin,
		lyingMax:    lyingMax,
	}
}

// Classify 纯函数分类：根据上一次标签与垂直轴g值返回新标签
// 落在迟滞带内（lyingMax ≤ |az| ≤ standingMin）时原样返回prev
func (c *OrientationClassifier) Classify(prev models.Orientation, azG float64) models.Orientation {
	if azG > c.standingMin {
		return models.OrientationStanding
	}
	if azG < c.lyingMax && azG > -c.lyingMax {
		return models.OrientationLyingDown
	}
	return prev
}
