package models

import (
	"encoding/json"
	"errors"
	"time"

	"ats-filter-go/pkg/utils"

	"gorm.io/datatypes"
)

// Job 岗位信息表，评估时只读取 JobDescriptionText
type Job struct {
	JobID              string    `gorm:"type:char(36);primaryKey"`
	JobTitle           string    `gorm:"type:varchar(255);not null"`
	Department         string    `gorm:"type:varchar(255)"`
	Location           string    `gorm:"type:varchar(255)"`
	JobDescriptionText string    `gorm:"type:text;not null"`
	Status             string    `gorm:"type:varchar(50);default:'ACTIVE';index:idx_jobs_status"`
	CreatedAt          time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt          time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (Job) TableName() string {
	return "jobs"
}

// StopWordList 每种语言一行停用词配置，Words 为 JSON 字符串数组
type StopWordList struct {
	Language  string         `gorm:"type:varchar(32);primaryKey"`
	Words     datatypes.JSON `gorm:"type:json;not null"`
	Source    string         `gorm:"type:varchar(64)"` // 例如 builtin、file:/path
	CreatedAt time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (StopWordList) TableName() string {
	return "stop_word_lists"
}

// WordList 解析 Words 列
func (s *StopWordList) WordList() ([]string, error) {
	var words []string
	if len(s.Words) == 0 {
		return words, nil
	}
	if err := json.Unmarshal(s.Words, &words); err != nil {
		return nil, err
	}
	return words, nil
}

// NewStopWordList 构造一行停用词配置
func NewStopWordList(language, source string, words []string) (*StopWordList, error) {
	if len(words) == 0 {
		return nil, errors.New("停用词列表为空")
	}
	return &StopWordList{
		Language: language,
		Words:    utils.ConvertArrayToJSON(words),
		Source:   source,
	}, nil
}
