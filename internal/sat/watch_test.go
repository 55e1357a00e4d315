package sat

import "testing"

func TestWatchList_RemoveBinPreservesOrder(t *testing.T) {
	var ws watchList
	ws.push(NewBinWatch(PositiveLiteral(1), false))
	ws.push(NewBinWatch(PositiveLiteral(2), false))
	ws.push(NewBinWatch(PositiveLiteral(3), false))

	ws.removeBin(PositiveLiteral(2), false)

	if len(ws) != 2 {
		t.Fatalf("len(ws) = %d, want 2", len(ws))
	}
	if ws[0].Other() != PositiveLiteral(1) || ws[1].Other() != PositiveLiteral(3) {
		t.Errorf("removeBin disturbed relative order: %v", ws)
	}
}

func TestWatchList_RemoveBinMatchesLearntFlag(t *testing.T) {
	var ws watchList
	ws.push(NewBinWatch(PositiveLiteral(1), true))
	ws.push(NewBinWatch(PositiveLiteral(1), false))

	ws.removeBin(PositiveLiteral(1), true)

	if len(ws) != 1 || ws[0].Learnt() {
		t.Errorf("removeBin removed the wrong entry: %v", ws)
	}
}

func TestWatchList_RemoveLong(t *testing.T) {
	var ws watchList
	ws.push(NewLongWatch(ClauseRef(10), PositiveLiteral(5)))
	ws.push(NewLongWatch(ClauseRef(20), PositiveLiteral(6)))

	ws.removeLong(ClauseRef(10))

	if len(ws) != 1 || ws[0].Ref() != ClauseRef(20) {
		t.Errorf("removeLong left %v, want only ref 20", ws)
	}
}

func TestWatchList_Find(t *testing.T) {
	var ws watchList
	ws.push(NewBinWatch(PositiveLiteral(1), false))

	if !ws.find(PositiveLiteral(1), false) {
		t.Error("find() = false, want true for a present entry")
	}
	if ws.find(PositiveLiteral(1), true) {
		t.Error("find() = true, want false: learnt flag does not match")
	}
	if ws.find(PositiveLiteral(2), false) {
		t.Error("find() = true, want false for an absent literal")
	}
}

func TestWatchList_SortByRankOrdersBinTriLong(t *testing.T) {
	var ws watchList
	ws.push(NewLongWatch(ClauseRef(1), PositiveLiteral(1)))
	ws.push(NewTriWatch(PositiveLiteral(2), PositiveLiteral(3)))
	ws.push(NewBinWatch(PositiveLiteral(4), false))

	ws.sortByRank()

	if !ws[0].IsBinary() || !ws[1].IsTri() || !ws[2].IsLong() {
		t.Errorf("sortByRank did not produce bin/tri/long order: %v", ws)
	}
}

func TestWatched_SetBlocker(t *testing.T) {
	w := NewLongWatch(ClauseRef(1), PositiveLiteral(1))
	w.SetBlocker(PositiveLiteral(2))
	if w.Blocker() != PositiveLiteral(2) {
		t.Errorf("Blocker() = %v, want the literal SetBlocker installed", w.Blocker())
	}
}
