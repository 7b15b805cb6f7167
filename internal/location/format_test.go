package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		city, district         string
		wantCity, wantDistrict string
	}{
		{"北京市", "北京市", "北京市", ""},
		{"北京市", "市辖区", "北京市", ""},
		{"", "朝阳区", "", "朝阳区"},
		{"", "北京市", "北京市", ""},
		{"", "香港特别行政区", "香港特别行政区", ""},
		{"上海市", "浦东新区", "上海市", "浦东新区"},
		{"北京", "北京市", "北京", ""},
		{"海南省", "省直辖县级行政区划", "海南省", ""},
		{"重庆市", "县", "重庆市", ""},
		{"  北京市　", " 海淀区 ", "北京市", "海淀区"},
		{"New  York", "New York City", "New York", ""},
		{"", "Shenzhen Shi", "Shenzhen Shi", ""},
		{"Paris", "Unknown", "Paris", ""},
		{"Shanghai Shi", "Shanghai City", "Shanghai Shi", ""},
		{"Hangzhou", "Xihu District", "Hangzhou", "Xihu District"},
		{"", "", "", ""},
	}

	for _, tt := range tests {
		c, d := Clean(tt.city, tt.district)
		assert.Equal(t, tt.wantCity, c, "city for %q/%q", tt.city, tt.district)
		assert.Equal(t, tt.wantDistrict, d, "district for %q/%q", tt.city, tt.district)
	}
}

func TestClean_Idempotent(t *testing.T) {
	inputs := [][2]string{
		{"北京市", "北京市"},
		{"北京市", "市辖区"},
		{"", "朝阳区"},
		{"", "北京市"},
		{"", "郊区"},
		{"", "市"},
		{" 广州市 ", "天河区　"},
		{"ＮＥＷ　ＹＯＲＫ", "Manhattan"},
		{"", "n/a"},
		{"Unknown", ""},
	}
	for _, in := range inputs {
		c1, d1 := Clean(in[0], in[1])
		c2, d2 := Clean(c1, d1)
		assert.Equal(t, c1, c2, "%q", in)
		assert.Equal(t, d1, d2, "%q", in)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "北京市", Format("北京市", "市辖区"))
	assert.Equal(t, "上海市 浦东新区", Format("上海市", "浦东新区"))
	assert.Equal(t, "朝阳区", Format("", "朝阳区"))
	assert.Equal(t, "Paris", Format("Paris", ""))
	assert.Equal(t, "", Format("", ""))
	assert.Equal(t, "", Format("  ", "　"))
}

func TestName(t *testing.T) {
	assert.True(t, UnknownName("zh").IsUnknown())
	assert.True(t, UnknownName("en").IsUnknown())
	assert.Equal(t, "Unknown Location", UnknownName("en").City)
	assert.False(t, Name{City: "北京市"}.IsUnknown())
	assert.Equal(t, "北京市 朝阳区", Name{City: "北京市", District: "朝阳区"}.Display())
}

func TestParseProvider(t *testing.T) {
	assert.Equal(t, ProviderTencent, ParseProvider("Tencent"))
	assert.Equal(t, ProviderOSM, ParseProvider("nominatim"))
	assert.Equal(t, DefaultProvider, ParseProvider(""))
	assert.Equal(t, ProviderOSM, ProviderTencent.Alternate())
	assert.Equal(t, ProviderTencent, ProviderOSM.Alternate())
}
