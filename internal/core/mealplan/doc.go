// Package mealplan 依份數縮放食譜，並將每週計畫彙整為分組採購清單。
//
// 本套件全部同步且不做 I/O。目錄為唯讀，傳入的 WeeklyPlan 在呼叫期間不可被修改。
package mealplan
